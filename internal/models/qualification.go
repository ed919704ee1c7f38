package models

// Qualification is a named liturgical role a volunteer may hold
// (e.g. Cruciferário, Turiferário). Names are unique.
type Qualification struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
