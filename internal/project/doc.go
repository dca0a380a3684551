// Package project knows the on-disk plugin layout:
//
//	<project>/
//	  Plugins.sln | Foo.csproj      (optional)
//	  plugins/                      marker root
//	    Foo/Foo.cs Foo/Foo.Hooks.cs plugin "Foo"
//	    Shop/Admin/*.cs             plugin "Shop_Admin"
//	  build/                        merged output
//
// A plugin is any directory below the marker root that directly contains at
// least one .cs file. Nested plugin directories are independent plugins named
// by their relative path with separators replaced by '_'.
package project
