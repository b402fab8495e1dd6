package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for database persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	Newsletter   bool
	JoinedAt     time.Time `gorm:"not null"`
}

type ConcertModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Date        string `gorm:"not null;index"`
	Venue       string `gorm:"not null"`
	Description string
	TicketURL   string
	CreatedAt   time.Time `gorm:"not null"`
}

type SongModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Genre       string `gorm:"not null"`
	ReleaseDate string `gorm:"index"`
	SpotifyURL  string
	Description string
}

type AlbumModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	CoverImage  string
	Photos      datatypes.JSON
	CreatedAt   time.Time `gorm:"not null;index"`
}

type ContactModel struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}
