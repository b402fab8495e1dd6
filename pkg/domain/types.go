package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Newsletter   bool      `json:"newsletterSubscribed"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// Concert dates are calendar dates in "2006-01-02" form.
type Concert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Venue       string    `json:"venue"`
	Description string    `json:"description,omitempty"`
	TicketURL   string    `json:"ticketUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Song struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	ReleaseDate string `json:"releaseDate"`
	SpotifyURL  string `json:"spotifyUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// Album photos keep insertion order; duplicates are allowed until an
// explicit remove-by-value.
type Album struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Photos      []string `json:"photos"`
}

type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
