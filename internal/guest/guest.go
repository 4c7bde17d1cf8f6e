package guest

// Guest is a directory record. The booking core reads guests by contact and
// never writes them; directory upkeep is its own concern.
type Guest struct {
	Contact        string
	Name           string
	Identification string
	Nationality    string
}
