package store

import (
	"fmt"
	"log/slog"
	"time"

	"futonsband/pkg/auth"
	"futonsband/pkg/domain"
)

// SeedConfig describes the records created on first run. AdminPassword has
// no fallback: deployments must configure it explicitly.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Seed populates empty collections with starter content and ensures the
// admin account exists. It is idempotent: collections that already hold
// records are left untouched.
func Seed(s Store, cfg SeedConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("seed requires admin email and password")
	}
	if cfg.AdminName == "" {
		cfg.AdminName = "Admin"
	}

	users, err := s.ListUsers()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := domain.User{
			ID:           NewID(),
			Name:         cfg.AdminName,
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			JoinedAt:     time.Now().UTC(),
		}
		if err := s.SaveUser(admin); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		slog.Info("seeded admin account", "email", cfg.AdminEmail)
	}

	concerts, err := s.ListConcerts()
	if err != nil {
		return fmt.Errorf("list concerts: %w", err)
	}
	if len(concerts) == 0 {
		for _, c := range []domain.Concert{
			{
				ID:        NewID(),
				Title:     "Denver Music Festival",
				Date:      "2025-06-15",
				Venue:     "Downtown Denver Park",
				TicketURL: "https://open.spotify.com/track/3F4bilF6RN2IaSsQrNs4Vr",
				CreatedAt: time.Now().UTC(),
			},
			{
				ID:        NewID(),
				Title:     "Indie Night at The Bluebird",
				Date:      "2025-08-10",
				Venue:     "The Bluebird Theater",
				TicketURL: "https://open.spotify.com/track/3F4bilF6RN2IaSsQrNs4Vr",
				CreatedAt: time.Now().UTC(),
			},
		} {
			if err := s.SaveConcert(c); err != nil {
				return fmt.Errorf("seed concert: %w", err)
			}
		}
	}

	songs, err := s.ListSongs()
	if err != nil {
		return fmt.Errorf("list songs: %w", err)
	}
	if len(songs) == 0 {
		for _, sg := range []domain.Song{
			{
				ID:          NewID(),
				Title:       "Skeuomorph",
				Genre:       "Indie Pop",
				ReleaseDate: "2025-01-10",
				SpotifyURL:  "https://open.spotify.com/track/3F4bilF6RN2IaSsQrNs4Vr",
			},
			{
				ID:          NewID(),
				Title:       "Wematanye",
				Genre:       "Indie Rock",
				ReleaseDate: "2024-11-02",
				SpotifyURL:  "https://open.spotify.com/track/2K5s4yXx7M2GszC2XZ0mDv",
			},
		} {
			if err := s.SaveSong(sg); err != nil {
				return fmt.Errorf("seed song: %w", err)
			}
		}
	}

	albums, err := s.ListAlbums()
	if err != nil {
		return fmt.Errorf("list albums: %w", err)
	}
	if len(albums) == 0 {
		for _, a := range []domain.Album{
			{
				ID:          "live-shows",
				Title:       "Live Shows",
				Description: "Energy from our live performances",
				CoverImage:  "/assets/img/poser1.jpeg",
				Photos:      []string{"/assets/img/poser1.jpeg", "/assets/img/poster2.jpeg"},
			},
			{
				ID:          "studio-sessions",
				Title:       "Studio Sessions",
				Description: "Behind the scenes recording",
				CoverImage:  "/assets/img/poster2.jpeg",
				Photos:      []string{"/assets/img/poster2.jpeg", "/assets/img/poser1.jpeg"},
			},
		} {
			if err := s.SaveAlbum(a); err != nil {
				return fmt.Errorf("seed album: %w", err)
			}
		}
	}

	return nil
}
