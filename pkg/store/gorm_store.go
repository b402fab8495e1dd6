package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"futonsband/pkg/domain"
)

// GormStore implements Store on Postgres via GORM. It offers the same
// full-record-per-write contract as the file store; the database's row
// locking takes the place of the file store's collection mutexes.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&ConcertModel{},
		&SongModel{},
		&AlbumModel{},
		&ContactModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// users

func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "password_hash", "role", "newsletter"}),
	}).Create(&model).Error
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("joined_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, nil
}

// concerts

func (s *GormStore) ListConcerts() ([]domain.Concert, error) {
	var models []ConcertModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	concerts := make([]domain.Concert, 0, len(models))
	for _, m := range models {
		concerts = append(concerts, concertFromModel(m))
	}
	return concerts, nil
}

func (s *GormStore) GetConcert(id string) (domain.Concert, bool, error) {
	var model ConcertModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Concert{}, false, nil
		}
		return domain.Concert{}, false, err
	}
	return concertFromModel(model), true, nil
}

func (s *GormStore) SaveConcert(c domain.Concert) error {
	model := concertToModel(c)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "date", "venue", "description", "ticket_url"}),
	}).Create(&model).Error
}

func (s *GormStore) DeleteConcert(id string) (bool, error) {
	res := s.db.Delete(&ConcertModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// songs

func (s *GormStore) ListSongs() ([]domain.Song, error) {
	var models []SongModel
	if err := s.db.Find(&models).Error; err != nil {
		return nil, err
	}
	songs := make([]domain.Song, 0, len(models))
	for _, m := range models {
		songs = append(songs, songFromModel(m))
	}
	return songs, nil
}

func (s *GormStore) GetSong(id string) (domain.Song, bool, error) {
	var model SongModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Song{}, false, nil
		}
		return domain.Song{}, false, err
	}
	return songFromModel(model), true, nil
}

func (s *GormStore) SaveSong(sg domain.Song) error {
	model := songToModel(sg)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "genre", "release_date", "spotify_url", "description"}),
	}).Create(&model).Error
}

func (s *GormStore) DeleteSong(id string) (bool, error) {
	res := s.db.Delete(&SongModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// albums

func (s *GormStore) ListAlbums() ([]domain.Album, error) {
	var models []AlbumModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	albums := make([]domain.Album, 0, len(models))
	for _, m := range models {
		albums = append(albums, albumFromModel(m))
	}
	return albums, nil
}

func (s *GormStore) GetAlbum(id string) (domain.Album, bool, error) {
	var model AlbumModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Album{}, false, nil
		}
		return domain.Album{}, false, err
	}
	return albumFromModel(model), true, nil
}

func (s *GormStore) SaveAlbum(a domain.Album) error {
	model := albumToModel(a)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "cover_image", "photos"}),
	}).Create(&model).Error
}

func (s *GormStore) DeleteAlbum(id string) (bool, error) {
	res := s.db.Delete(&AlbumModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// contacts

func (s *GormStore) SaveContact(c domain.ContactSubmission) error {
	model := ContactModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
	return s.db.Create(&model).Error
}

func (s *GormStore) ListContacts() ([]domain.ContactSubmission, error) {
	var models []ContactModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	contacts := make([]domain.ContactSubmission, 0, len(models))
	for _, m := range models {
		contacts = append(contacts, domain.ContactSubmission{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}
	return contacts, nil
}

// model conversion

func userToModel(u domain.User) UserModel {
	joined := u.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Newsletter:   u.Newsletter,
		JoinedAt:     joined,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Newsletter:   m.Newsletter,
		JoinedAt:     m.JoinedAt,
	}
}

func concertToModel(c domain.Concert) ConcertModel {
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return ConcertModel{
		ID:          c.ID,
		Title:       c.Title,
		Date:        c.Date,
		Venue:       c.Venue,
		Description: c.Description,
		TicketURL:   c.TicketURL,
		CreatedAt:   created,
	}
}

func concertFromModel(m ConcertModel) domain.Concert {
	return domain.Concert{
		ID:          m.ID,
		Title:       m.Title,
		Date:        m.Date,
		Venue:       m.Venue,
		Description: m.Description,
		TicketURL:   m.TicketURL,
		CreatedAt:   m.CreatedAt,
	}
}

func songToModel(s domain.Song) SongModel {
	return SongModel{
		ID:          s.ID,
		Title:       s.Title,
		Genre:       s.Genre,
		ReleaseDate: s.ReleaseDate,
		SpotifyURL:  s.SpotifyURL,
		Description: s.Description,
	}
}

func songFromModel(m SongModel) domain.Song {
	return domain.Song{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		ReleaseDate: m.ReleaseDate,
		SpotifyURL:  m.SpotifyURL,
		Description: m.Description,
	}
}

func albumToModel(a domain.Album) AlbumModel {
	photos := a.Photos
	if photos == nil {
		photos = []string{}
	}
	encoded, _ := json.Marshal(photos)
	return AlbumModel{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		CoverImage:  a.CoverImage,
		Photos:      datatypes.JSON(encoded),
	}
}

func albumFromModel(m AlbumModel) domain.Album {
	var photos []string
	if len(m.Photos) > 0 {
		_ = json.Unmarshal(m.Photos, &photos)
	}
	if photos == nil {
		photos = []string{}
	}
	return domain.Album{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CoverImage:  m.CoverImage,
		Photos:      photos,
	}
}
