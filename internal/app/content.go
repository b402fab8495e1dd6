package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"futonsband/internal/events"
	"futonsband/pkg/domain"
	"futonsband/pkg/store"
)

const dateLayout = "2006-01-02"

// ConcertInput carries fields for creating a concert.
type ConcertInput struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	TicketURL   string `json:"ticketUrl"`
}

// ConcertUpdate carries a partial update; nil fields are left unchanged.
type ConcertUpdate struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Venue       *string `json:"venue"`
	Description *string `json:"description"`
	TicketURL   *string `json:"ticketUrl"`
}

// ListConcerts returns all concerts sorted ascending by date, soonest first.
func (a *App) ListConcerts() ([]domain.Concert, error) {
	concerts, err := a.store.ListConcerts()
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
	}
	sort.SliceStable(concerts, func(i, j int) bool {
		return compareDates(concerts[i].Date, concerts[j].Date) < 0
	})
	return concerts, nil
}

// CreateConcert validates and stores a concert, then notifies newsletter
// subscribers. The notification is best-effort: a mail failure never fails
// the creation.
func (a *App) CreateConcert(ctx context.Context, in ConcertInput) (domain.Concert, error) {
	title := strings.TrimSpace(in.Title)
	date := strings.TrimSpace(in.Date)
	venue := strings.TrimSpace(in.Venue)
	if title == "" || date == "" || venue == "" {
		return domain.Concert{}, invalidInput("title, date, and venue are required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return domain.Concert{}, invalidInput("date must be in YYYY-MM-DD form")
	}
	concert := domain.Concert{
		ID:          store.NewID(),
		Title:       title,
		Date:        date,
		Venue:       venue,
		Description: strings.TrimSpace(in.Description),
		TicketURL:   strings.TrimSpace(in.TicketURL),
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.SaveConcert(concert); err != nil {
		return domain.Concert{}, fmt.Errorf("save concert: %w", err)
	}
	a.publish(ctx, events.KeyConcertCreated, concert)
	if sent, err := a.BroadcastNewConcert(ctx, concert); err != nil {
		slog.Warn("new concert broadcast failed", "concert_id", concert.ID, "err", err)
	} else {
		slog.Info("new concert broadcast", "concert_id", concert.ID, "sent", sent)
	}
	return concert, nil
}

// UpdateConcert merges provided fields over the stored concert. The
// identifier is never overwritten.
func (a *App) UpdateConcert(id string, in ConcertUpdate) (domain.Concert, error) {
	concert, ok, err := a.store.GetConcert(id)
	if err != nil {
		return domain.Concert{}, fmt.Errorf("fetch concert: %w", err)
	}
	if !ok {
		return domain.Concert{}, ErrNotFound
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Concert{}, invalidInput("title cannot be empty")
		}
		concert.Title = title
	}
	if in.Date != nil {
		date := strings.TrimSpace(*in.Date)
		if _, err := time.Parse(dateLayout, date); err != nil {
			return domain.Concert{}, invalidInput("date must be in YYYY-MM-DD form")
		}
		concert.Date = date
	}
	if in.Venue != nil {
		venue := strings.TrimSpace(*in.Venue)
		if venue == "" {
			return domain.Concert{}, invalidInput("venue cannot be empty")
		}
		concert.Venue = venue
	}
	if in.Description != nil {
		concert.Description = strings.TrimSpace(*in.Description)
	}
	if in.TicketURL != nil {
		concert.TicketURL = strings.TrimSpace(*in.TicketURL)
	}
	if err := a.store.SaveConcert(concert); err != nil {
		return domain.Concert{}, fmt.Errorf("save concert: %w", err)
	}
	return concert, nil
}

// DeleteConcert removes a concert.
func (a *App) DeleteConcert(id string) error {
	removed, err := a.store.DeleteConcert(id)
	if err != nil {
		return fmt.Errorf("delete concert: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// SongInput carries fields for creating a song.
type SongInput struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	ReleaseDate string `json:"releaseDate"`
	SpotifyURL  string `json:"spotifyUrl"`
	Description string `json:"description"`
}

// SongUpdate carries a partial update; nil fields are left unchanged.
type SongUpdate struct {
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	ReleaseDate *string `json:"releaseDate"`
	SpotifyURL  *string `json:"spotifyUrl"`
	Description *string `json:"description"`
}

// ListSongs returns all songs sorted descending by release date, newest
// first.
func (a *App) ListSongs() ([]domain.Song, error) {
	songs, err := a.store.ListSongs()
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	sort.SliceStable(songs, func(i, j int) bool {
		return compareDates(songs[i].ReleaseDate, songs[j].ReleaseDate) > 0
	})
	return songs, nil
}

// CreateSong validates and stores a song. A missing release date defaults
// to the creation date.
func (a *App) CreateSong(ctx context.Context, in SongInput) (domain.Song, error) {
	title := strings.TrimSpace(in.Title)
	genre := strings.TrimSpace(in.Genre)
	if title == "" || genre == "" {
		return domain.Song{}, invalidInput("title and genre are required")
	}
	releaseDate := strings.TrimSpace(in.ReleaseDate)
	if releaseDate == "" {
		releaseDate = time.Now().UTC().Format(dateLayout)
	}
	song := domain.Song{
		ID:          store.NewID(),
		Title:       title,
		Genre:       genre,
		ReleaseDate: releaseDate,
		SpotifyURL:  strings.TrimSpace(in.SpotifyURL),
		Description: strings.TrimSpace(in.Description),
	}
	if err := a.store.SaveSong(song); err != nil {
		return domain.Song{}, fmt.Errorf("save song: %w", err)
	}
	a.publish(ctx, events.KeySongCreated, song)
	return song, nil
}

// UpdateSong merges provided fields over the stored song.
func (a *App) UpdateSong(id string, in SongUpdate) (domain.Song, error) {
	song, ok, err := a.store.GetSong(id)
	if err != nil {
		return domain.Song{}, fmt.Errorf("fetch song: %w", err)
	}
	if !ok {
		return domain.Song{}, ErrNotFound
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Song{}, invalidInput("title cannot be empty")
		}
		song.Title = title
	}
	if in.Genre != nil {
		genre := strings.TrimSpace(*in.Genre)
		if genre == "" {
			return domain.Song{}, invalidInput("genre cannot be empty")
		}
		song.Genre = genre
	}
	if in.ReleaseDate != nil {
		song.ReleaseDate = strings.TrimSpace(*in.ReleaseDate)
	}
	if in.SpotifyURL != nil {
		song.SpotifyURL = strings.TrimSpace(*in.SpotifyURL)
	}
	if in.Description != nil {
		song.Description = strings.TrimSpace(*in.Description)
	}
	if err := a.store.SaveSong(song); err != nil {
		return domain.Song{}, fmt.Errorf("save song: %w", err)
	}
	return song, nil
}

// DeleteSong removes a song.
func (a *App) DeleteSong(id string) error {
	removed, err := a.store.DeleteSong(id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// AlbumInput carries fields for creating a photo album.
type AlbumInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

// AlbumUpdate carries a partial update; nil fields are left unchanged.
type AlbumUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
}

// ListAlbums returns albums in insertion order.
func (a *App) ListAlbums() ([]domain.Album, error) {
	albums, err := a.store.ListAlbums()
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

// CreateAlbum validates and stores an album with an empty photo list.
func (a *App) CreateAlbum(in AlbumInput) (domain.Album, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Album{}, invalidInput("album title is required")
	}
	album := domain.Album{
		ID:          store.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CoverImage:  strings.TrimSpace(in.CoverImage),
		Photos:      []string{},
	}
	if err := a.store.SaveAlbum(album); err != nil {
		return domain.Album{}, fmt.Errorf("save album: %w", err)
	}
	return album, nil
}

// UpdateAlbum merges provided fields over the stored album. Photos are
// managed through AddPhoto/RemovePhoto, not here.
func (a *App) UpdateAlbum(id string, in AlbumUpdate) (domain.Album, error) {
	album, ok, err := a.store.GetAlbum(id)
	if err != nil {
		return domain.Album{}, fmt.Errorf("fetch album: %w", err)
	}
	if !ok {
		return domain.Album{}, ErrNotFound
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.Album{}, invalidInput("title cannot be empty")
		}
		album.Title = title
	}
	if in.Description != nil {
		album.Description = strings.TrimSpace(*in.Description)
	}
	if in.CoverImage != nil {
		album.CoverImage = strings.TrimSpace(*in.CoverImage)
	}
	if err := a.store.SaveAlbum(album); err != nil {
		return domain.Album{}, fmt.Errorf("save album: %w", err)
	}
	return album, nil
}

// DeleteAlbum removes an album.
func (a *App) DeleteAlbum(id string) error {
	removed, err := a.store.DeleteAlbum(id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// AddPhoto appends a photo path to the album. Duplicates are allowed.
func (a *App) AddPhoto(albumID, photoPath string) (domain.Album, error) {
	photoPath = strings.TrimSpace(photoPath)
	if photoPath == "" {
		return domain.Album{}, invalidInput("photoPath is required")
	}
	album, ok, err := a.store.GetAlbum(albumID)
	if err != nil {
		return domain.Album{}, fmt.Errorf("fetch album: %w", err)
	}
	if !ok {
		return domain.Album{}, ErrNotFound
	}
	album.Photos = append(album.Photos, photoPath)
	if err := a.store.SaveAlbum(album); err != nil {
		return domain.Album{}, fmt.Errorf("save album: %w", err)
	}
	return album, nil
}

// RemovePhoto removes every occurrence of the exact photo path.
func (a *App) RemovePhoto(albumID, photoPath string) (domain.Album, error) {
	album, ok, err := a.store.GetAlbum(albumID)
	if err != nil {
		return domain.Album{}, fmt.Errorf("fetch album: %w", err)
	}
	if !ok {
		return domain.Album{}, ErrNotFound
	}
	kept := make([]string, 0, len(album.Photos))
	for _, p := range album.Photos {
		if p != photoPath {
			kept = append(kept, p)
		}
	}
	album.Photos = kept
	if err := a.store.SaveAlbum(album); err != nil {
		return domain.Album{}, fmt.Errorf("save album: %w", err)
	}
	return album, nil
}

// SubmitContact stores a write-once contact form submission.
func (a *App) SubmitContact(ctx context.Context, name, email, message string) (domain.ContactSubmission, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return domain.ContactSubmission{}, invalidInput("name, email, and message are required")
	}
	contact := domain.ContactSubmission{
		ID:        store.NewID(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveContact(contact); err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("save contact: %w", err)
	}
	a.publish(ctx, events.KeyContactReceived, contact)
	return contact, nil
}

// ListContacts returns all submissions (admin use only).
func (a *App) ListContacts() ([]domain.ContactSubmission, error) {
	contacts, err := a.store.ListContacts()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// compareDates orders "2006-01-02" strings chronologically, falling back to
// lexical order for anything unparseable so listing never fails.
func compareDates(left, right string) int {
	lt, lerr := time.Parse(dateLayout, left)
	rt, rerr := time.Parse(dateLayout, right)
	if lerr == nil && rerr == nil {
		switch {
		case lt.Before(rt):
			return -1
		case lt.After(rt):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(left, right)
}
