package entity

type Category struct {
	BaseNoDelete
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
}
