package sheets

// ColumnNumber converts a spreadsheet column letter to its 1-indexed
// position: A=1, Z=26, AA=27.
func ColumnNumber(letters string) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		n = n*26 + int(letters[i]-'A') + 1
	}
	return n
}
