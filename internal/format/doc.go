// Package format renders generated C# text with canonical whitespace and
// writes it to disk.
//
// Правила: '\n' как перевод строки, отступ 4 пробела на уровень, пробелы в
// конце строк удаляются, не больше одной пустой строки подряд, файл
// заканчивается ровно одним '\n'. Строки внутри многострочных литералов
// (verbatim) копируются как есть.
// Не делает: разбор или переупорядочивание кода.
package format
