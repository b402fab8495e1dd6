package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"futonsband/pkg/domain"
)

// FileStore keeps each collection in a pretty-printed JSON array file under
// a single data directory. A read loads the whole file and a write replaces
// it; a per-collection mutex serializes the load-mutate-save sequence so
// concurrent writers cannot lose each other's updates.
type FileStore struct {
	dir   string
	locks map[string]*sync.Mutex
}

// NewFileStore creates the data directory if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	locks := make(map[string]*sync.Mutex)
	for _, name := range []string{
		CollectionUsers,
		CollectionConcerts,
		CollectionSongs,
		CollectionAlbums,
		CollectionContacts,
	} {
		locks[name] = &sync.Mutex{}
	}
	return &FileStore{dir: dir, locks: locks}, nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

// loadCollection reads a whole collection. A missing or corrupt file loads
// as an empty collection; it never fails the caller.
func loadCollection[T any](f *FileStore, collection string) []T {
	data, err := os.ReadFile(f.path(collection))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("read collection failed, treating as empty", "collection", collection, "err", err)
		}
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("parse collection failed, treating as empty", "collection", collection, "err", err)
		return nil
	}
	return items
}

// saveCollection replaces the stored collection's contents.
func saveCollection[T any](f *FileStore, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	tmp := f.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, f.path(collection)); err != nil {
		return fmt.Errorf("replace %s: %w", collection, err)
	}
	return nil
}

// upsert replaces the record with a matching id or appends a new one,
// preserving insertion order.
func upsert[T any](items []T, item T, sameID func(T) bool) []T {
	for i := range items {
		if sameID(items[i]) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// remove filters out the record with a matching id. The second return value
// reports whether anything was removed.
func remove[T any](items []T, sameID func(T) bool) ([]T, bool) {
	out := items[:0]
	removed := false
	for _, item := range items {
		if sameID(item) {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// users

func (f *FileStore) SaveUser(u domain.User) error {
	f.locks[CollectionUsers].Lock()
	defer f.locks[CollectionUsers].Unlock()
	users := loadCollection[fileUser](f, CollectionUsers)
	users = upsert(users, fileUserFrom(u), func(r fileUser) bool { return r.ID == u.ID })
	return saveCollection(f, CollectionUsers, users)
}

func (f *FileStore) GetUserByEmail(email string) (domain.User, bool, error) {
	f.locks[CollectionUsers].Lock()
	defer f.locks[CollectionUsers].Unlock()
	for _, u := range loadCollection[fileUser](f, CollectionUsers) {
		if u.Email == email {
			return u.toDomain(), true, nil
		}
	}
	return domain.User{}, false, nil
}

func (f *FileStore) GetUserByID(id string) (domain.User, bool, error) {
	f.locks[CollectionUsers].Lock()
	defer f.locks[CollectionUsers].Unlock()
	for _, u := range loadCollection[fileUser](f, CollectionUsers) {
		if u.ID == id {
			return u.toDomain(), true, nil
		}
	}
	return domain.User{}, false, nil
}

func (f *FileStore) ListUsers() ([]domain.User, error) {
	f.locks[CollectionUsers].Lock()
	defer f.locks[CollectionUsers].Unlock()
	records := loadCollection[fileUser](f, CollectionUsers)
	users := make([]domain.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toDomain())
	}
	return users, nil
}

// concerts

func (f *FileStore) ListConcerts() ([]domain.Concert, error) {
	f.locks[CollectionConcerts].Lock()
	defer f.locks[CollectionConcerts].Unlock()
	return loadCollection[domain.Concert](f, CollectionConcerts), nil
}

func (f *FileStore) GetConcert(id string) (domain.Concert, bool, error) {
	f.locks[CollectionConcerts].Lock()
	defer f.locks[CollectionConcerts].Unlock()
	for _, c := range loadCollection[domain.Concert](f, CollectionConcerts) {
		if c.ID == id {
			return c, true, nil
		}
	}
	return domain.Concert{}, false, nil
}

func (f *FileStore) SaveConcert(c domain.Concert) error {
	f.locks[CollectionConcerts].Lock()
	defer f.locks[CollectionConcerts].Unlock()
	concerts := loadCollection[domain.Concert](f, CollectionConcerts)
	concerts = upsert(concerts, c, func(r domain.Concert) bool { return r.ID == c.ID })
	return saveCollection(f, CollectionConcerts, concerts)
}

func (f *FileStore) DeleteConcert(id string) (bool, error) {
	f.locks[CollectionConcerts].Lock()
	defer f.locks[CollectionConcerts].Unlock()
	concerts := loadCollection[domain.Concert](f, CollectionConcerts)
	concerts, removed := remove(concerts, func(r domain.Concert) bool { return r.ID == id })
	if !removed {
		return false, nil
	}
	return true, saveCollection(f, CollectionConcerts, concerts)
}

// songs

func (f *FileStore) ListSongs() ([]domain.Song, error) {
	f.locks[CollectionSongs].Lock()
	defer f.locks[CollectionSongs].Unlock()
	return loadCollection[domain.Song](f, CollectionSongs), nil
}

func (f *FileStore) GetSong(id string) (domain.Song, bool, error) {
	f.locks[CollectionSongs].Lock()
	defer f.locks[CollectionSongs].Unlock()
	for _, s := range loadCollection[domain.Song](f, CollectionSongs) {
		if s.ID == id {
			return s, true, nil
		}
	}
	return domain.Song{}, false, nil
}

func (f *FileStore) SaveSong(s domain.Song) error {
	f.locks[CollectionSongs].Lock()
	defer f.locks[CollectionSongs].Unlock()
	songs := loadCollection[domain.Song](f, CollectionSongs)
	songs = upsert(songs, s, func(r domain.Song) bool { return r.ID == s.ID })
	return saveCollection(f, CollectionSongs, songs)
}

func (f *FileStore) DeleteSong(id string) (bool, error) {
	f.locks[CollectionSongs].Lock()
	defer f.locks[CollectionSongs].Unlock()
	songs := loadCollection[domain.Song](f, CollectionSongs)
	songs, removed := remove(songs, func(r domain.Song) bool { return r.ID == id })
	if !removed {
		return false, nil
	}
	return true, saveCollection(f, CollectionSongs, songs)
}

// albums

func (f *FileStore) ListAlbums() ([]domain.Album, error) {
	f.locks[CollectionAlbums].Lock()
	defer f.locks[CollectionAlbums].Unlock()
	return loadCollection[domain.Album](f, CollectionAlbums), nil
}

func (f *FileStore) GetAlbum(id string) (domain.Album, bool, error) {
	f.locks[CollectionAlbums].Lock()
	defer f.locks[CollectionAlbums].Unlock()
	for _, a := range loadCollection[domain.Album](f, CollectionAlbums) {
		if a.ID == id {
			return a, true, nil
		}
	}
	return domain.Album{}, false, nil
}

func (f *FileStore) SaveAlbum(a domain.Album) error {
	f.locks[CollectionAlbums].Lock()
	defer f.locks[CollectionAlbums].Unlock()
	albums := loadCollection[domain.Album](f, CollectionAlbums)
	albums = upsert(albums, a, func(r domain.Album) bool { return r.ID == a.ID })
	return saveCollection(f, CollectionAlbums, albums)
}

func (f *FileStore) DeleteAlbum(id string) (bool, error) {
	f.locks[CollectionAlbums].Lock()
	defer f.locks[CollectionAlbums].Unlock()
	albums := loadCollection[domain.Album](f, CollectionAlbums)
	albums, removed := remove(albums, func(r domain.Album) bool { return r.ID == id })
	if !removed {
		return false, nil
	}
	return true, saveCollection(f, CollectionAlbums, albums)
}

// contacts

func (f *FileStore) SaveContact(c domain.ContactSubmission) error {
	f.locks[CollectionContacts].Lock()
	defer f.locks[CollectionContacts].Unlock()
	contacts := loadCollection[domain.ContactSubmission](f, CollectionContacts)
	contacts = upsert(contacts, c, func(r domain.ContactSubmission) bool { return r.ID == c.ID })
	return saveCollection(f, CollectionContacts, contacts)
}

func (f *FileStore) ListContacts() ([]domain.ContactSubmission, error) {
	f.locks[CollectionContacts].Lock()
	defer f.locks[CollectionContacts].Unlock()
	return loadCollection[domain.ContactSubmission](f, CollectionContacts), nil
}

// fileUser is the on-disk user shape. domain.User hides the password hash
// from JSON responses, so the stored form carries it explicitly.
type fileUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	Newsletter   bool      `json:"newsletterSubscribed"`
	JoinedAt     time.Time `json:"joinedAt"`
}

func fileUserFrom(u domain.User) fileUser {
	return fileUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Newsletter:   u.Newsletter,
		JoinedAt:     u.JoinedAt,
	}
}

func (r fileUser) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.UserRole(r.Role),
		Newsletter:   r.Newsletter,
		JoinedAt:     r.JoinedAt,
	}
}
