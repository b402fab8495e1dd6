package store

import "futonsband/pkg/domain"

// Collection names shared by all store implementations. The file store maps
// each one to a JSON file; the database store maps each one to a table.
const (
	CollectionUsers    = "users"
	CollectionConcerts = "concerts"
	CollectionSongs    = "songs"
	CollectionAlbums   = "albums"
	CollectionContacts = "contacts"
)

// Store defines persistence for the band site's collections. Every write
// replaces the record within its collection; identifiers are supplied by the
// caller (see NewID) and never generated by the store.
type Store interface {
	// users
	SaveUser(domain.User) error
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)

	// concerts
	ListConcerts() ([]domain.Concert, error)
	GetConcert(id string) (domain.Concert, bool, error)
	SaveConcert(domain.Concert) error
	DeleteConcert(id string) (bool, error)

	// songs
	ListSongs() ([]domain.Song, error)
	GetSong(id string) (domain.Song, bool, error)
	SaveSong(domain.Song) error
	DeleteSong(id string) (bool, error)

	// albums
	ListAlbums() ([]domain.Album, error)
	GetAlbum(id string) (domain.Album, bool, error)
	SaveAlbum(domain.Album) error
	DeleteAlbum(id string) (bool, error)

	// contacts
	SaveContact(domain.ContactSubmission) error
	ListContacts() ([]domain.ContactSubmission, error)
}
