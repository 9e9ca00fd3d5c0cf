package model

import "time"

// Иерархия размещения: Location -> Cabinet -> Drawer.
// Дело ссылается на ящик (drawer) либо не размещено (NULL).

type Location struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Cabinet struct {
	ID         int64     `db:"id" json:"id"`
	LocationID int64     `db:"location_id" json:"location_id"`
	Label      string    `db:"label" json:"label"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Drawer struct {
	ID        int64     `db:"id" json:"id"`
	CabinetID int64     `db:"cabinet_id" json:"cabinet_id"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DrawerPath : ящик вместе с полным путём размещения для отображения
type DrawerPath struct {
	DrawerID      int64  `db:"drawer_id" json:"drawer_id"`
	DrawerLabel   string `db:"drawer_label" json:"drawer_label"`
	CabinetID     int64  `db:"cabinet_id" json:"cabinet_id"`
	CabinetLabel  string `db:"cabinet_label" json:"cabinet_label"`
	LocationID    int64  `db:"location_id" json:"location_id"`
	LocationName  string `db:"location_name" json:"location_name"`
	FileCount     int    `db:"file_count" json:"file_count"`
}
