package excel

// RawTable is a delimited or spreadsheet file as trimmed string cells
type RawTable struct {
	Name    string     // source file name
	Headers []string   // first row
	Rows    [][]string // remaining rows, padded to len(Headers)
}
