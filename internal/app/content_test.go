package app

import (
	"context"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestConcertLifecycle(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	created, err := a.CreateConcert(ctx, ConcertInput{
		Title: "Summer Show",
		Date:  "2026-07-04",
		Venue: "Red Rocks",
	})
	if err != nil {
		t.Fatalf("CreateConcert: %v", err)
	}
	if created.ID == "" {
		t.Fatal("concert has no id")
	}

	updated, err := a.UpdateConcert(created.ID, ConcertUpdate{
		Venue:       strPtr("The Bluebird"),
		Description: strPtr("Rescheduled indoor show"),
	})
	if err != nil {
		t.Fatalf("UpdateConcert: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %q -> %q", created.ID, updated.ID)
	}
	if updated.Venue != "The Bluebird" {
		t.Errorf("venue = %q", updated.Venue)
	}
	if updated.Title != "Summer Show" {
		t.Errorf("untouched title changed to %q", updated.Title)
	}

	if err := a.DeleteConcert(created.ID); err != nil {
		t.Fatalf("DeleteConcert: %v", err)
	}
	if err := a.DeleteConcert(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCreateConcertValidation(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	if _, err := a.CreateConcert(ctx, ConcertInput{Title: "X", Venue: "Y"}); !IsInvalidInput(err) {
		t.Errorf("missing date err = %v, want invalid input", err)
	}
	if _, err := a.CreateConcert(ctx, ConcertInput{Title: "X", Date: "July 4th", Venue: "Y"}); !IsInvalidInput(err) {
		t.Errorf("bad date err = %v, want invalid input", err)
	}
	if _, err := a.UpdateConcert("missing", ConcertUpdate{Title: strPtr("T")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}
}

func TestListConcertsSortedSoonestFirst(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	for _, c := range []ConcertInput{
		{Title: "Later", Date: "2026-10-01", Venue: "V"},
		{Title: "Soonest", Date: "2026-01-15", Venue: "V"},
		{Title: "Middle", Date: "2026-05-20", Venue: "V"},
	} {
		if _, err := a.CreateConcert(ctx, c); err != nil {
			t.Fatalf("CreateConcert %s: %v", c.Title, err)
		}
	}

	concerts, err := a.ListConcerts()
	if err != nil {
		t.Fatalf("ListConcerts: %v", err)
	}
	var titles []string
	for _, c := range concerts {
		titles = append(titles, c.Title)
	}
	want := []string{"Soonest", "Middle", "Later"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestSongDefaultsAndOrdering(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	older, err := a.CreateSong(ctx, SongInput{Title: "Old", Genre: "rock", ReleaseDate: "2020-01-01"})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	newer, err := a.CreateSong(ctx, SongInput{Title: "New", Genre: "rock"})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	if newer.ReleaseDate == "" {
		t.Fatal("release date not defaulted")
	}

	songs, err := a.ListSongs()
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("len = %d", len(songs))
	}
	if songs[0].ID != newer.ID || songs[1].ID != older.ID {
		t.Errorf("songs not newest-first: %q then %q", songs[0].Title, songs[1].Title)
	}
}

func TestSongUpdateAndDelete(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	song, err := a.CreateSong(ctx, SongInput{Title: "Skeuomorph", Genre: "indie"})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	updated, err := a.UpdateSong(song.ID, SongUpdate{Genre: strPtr("dream pop")})
	if err != nil {
		t.Fatalf("UpdateSong: %v", err)
	}
	if updated.Genre != "dream pop" || updated.Title != "Skeuomorph" {
		t.Errorf("merge wrong: %+v", updated)
	}
	if _, err := a.UpdateSong(song.ID, SongUpdate{Title: strPtr(" ")}); !IsInvalidInput(err) {
		t.Errorf("blank title err = %v, want invalid input", err)
	}
	if err := a.DeleteSong(song.ID); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}
	if err := a.DeleteSong(song.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestAlbumPhotos(t *testing.T) {
	a := newTestApp(t, nil)

	album, err := a.CreateAlbum(AlbumInput{Title: "Live Shows"})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	if album.Photos == nil || len(album.Photos) != 0 {
		t.Fatalf("new album photos = %#v, want empty slice", album.Photos)
	}

	album, err = a.AddPhoto(album.ID, "/assets/img/a.jpg")
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	album, err = a.AddPhoto(album.ID, "/assets/img/b.jpg")
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	// Duplicates are allowed on add.
	album, err = a.AddPhoto(album.ID, "/assets/img/a.jpg")
	if err != nil {
		t.Fatalf("AddPhoto duplicate: %v", err)
	}
	if len(album.Photos) != 3 {
		t.Fatalf("photos = %v", album.Photos)
	}

	// Removal drops every occurrence of the exact path.
	album, err = a.RemovePhoto(album.ID, "/assets/img/a.jpg")
	if err != nil {
		t.Fatalf("RemovePhoto: %v", err)
	}
	if len(album.Photos) != 1 || album.Photos[0] != "/assets/img/b.jpg" {
		t.Fatalf("photos after remove = %v", album.Photos)
	}

	if _, err := a.AddPhoto("missing", "/x.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("add to missing album err = %v, want ErrNotFound", err)
	}
}

func TestAlbumUpdate(t *testing.T) {
	a := newTestApp(t, nil)
	album, err := a.CreateAlbum(AlbumInput{Title: "Studio", Description: "takes"})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	updated, err := a.UpdateAlbum(album.ID, AlbumUpdate{CoverImage: strPtr("/assets/img/cover.jpg")})
	if err != nil {
		t.Fatalf("UpdateAlbum: %v", err)
	}
	if updated.CoverImage != "/assets/img/cover.jpg" || updated.Description != "takes" {
		t.Errorf("merge wrong: %+v", updated)
	}
}

func TestContactSubmissions(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	if _, err := a.SubmitContact(ctx, "Jon", "jon@example.com", ""); !IsInvalidInput(err) {
		t.Errorf("blank message err = %v, want invalid input", err)
	}

	sub, err := a.SubmitContact(ctx, "Jon", "jon@example.com", "Play in Boise!")
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("submission not timestamped")
	}

	contacts, err := a.ListContacts()
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Message != "Play in Boise!" {
		t.Fatalf("contacts = %+v", contacts)
	}
}
