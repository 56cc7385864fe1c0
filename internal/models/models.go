package models

import "time"

// User roles within the community feed.
const (
	RoleParent  = "parent"
	RoleMonitor = "monitor"
)

// User represents a registered profile
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// Camp represents a summer camp offering
type Camp struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description"`
	MainImage       string    `json:"main_image"`
	Images          []string  `json:"images"`
	Highlights      []string  `json:"highlights"`
	OfficialSite    string    `json:"official_site,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	Price           float64   `json:"price,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// DateRange is the stay interval picked during registration
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FormData carries the registration form fields. Card fields are
// captured verbatim and never validated or charged.
type FormData struct {
	ChildFirstName  string `json:"child_first_name"`
	ChildLastName   string `json:"child_last_name"`
	ChildEmail      string `json:"child_email"`
	ChildOtherInfo  string `json:"child_other_info"`
	ParentFirstName string `json:"parent_first_name"`
	ParentLastName  string `json:"parent_last_name"`
	ParentDNI       string `json:"parent_dni"`
	ParentEmail     string `json:"parent_email"`
	ParentPhone     string `json:"parent_phone"`
	CardNumber      string `json:"card_number"`
	CardCVC         string `json:"card_cvc"`
	CardExpiry      string `json:"card_expiry"`
	PhotoPermission bool   `json:"photo_permission"`
}

// Enrollment represents a confirmed camp registration
type Enrollment struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	CampID    int64     `json:"camp_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	FormData  *FormData `json:"form_data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a camp review written from the account page
type Review struct {
	CampID       int64  `json:"camp_id"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	AuthorEmail  string `json:"author_email"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// Favorite marks a camp saved by a user
type Favorite struct {
	UserID string `json:"user_id"`
	CampID int64  `json:"camp_id"`
}

// Post content kinds
const (
	PostTypePhoto = "photo"
	PostTypePoll  = "poll"
	PostTypeText  = "text"
)

// PollOption is one selectable answer of a poll post
type PollOption struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll holds the question, options and the email -> option id vote map.
// Each email appears at most once; a vote is immutable once cast.
type Poll struct {
	Question string         `json:"question"`
	Options  []PollOption   `json:"options"`
	VotedBy  map[string]int `json:"votedBy"`
}

// Comment is a single feed comment
type Comment struct {
	ID           string `json:"id"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	Text         string `json:"text"`
}

// Post is a community feed entry authored by a monitor.
// Likes always equals len(LikedBy); Poll is set iff Type is "poll".
type Post struct {
	ID            int64     `json:"id"`
	CampID        int64     `json:"camp_id"`
	Type          string    `json:"type"`
	MonitorName   string    `json:"monitor_name"`
	MonitorAvatar string    `json:"monitor_avatar"`
	Caption       string    `json:"caption"`
	ImageURL      string    `json:"image_url,omitempty"`
	Poll          *Poll     `json:"poll,omitempty"`
	Likes         int       `json:"likes"`
	LikedBy       []string  `json:"liked_by"`
	Comments      []Comment `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}

// Reaction is a single-emoji story reaction; at most one per user email.
type Reaction struct {
	UserEmail string `json:"userEmail"`
	Emoji     string `json:"emoji"`
}

// Story is an ephemeral community story. Viewed is computed for the
// requesting session and never persisted.
type Story struct {
	ID            int64      `json:"id"`
	MonitorName   string     `json:"monitor_name"`
	MonitorAvatar string     `json:"monitor_avatar"`
	ImageURL      string     `json:"image_url"`
	Caption       string     `json:"caption,omitempty"`
	Reactions     []Reaction `json:"reactions"`
	Viewed        bool       `json:"viewed"`
	CreatedAt     time.Time  `json:"created_at"`
}

// LogEntry is a structured application event persisted to the logs table
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Category  string         `json:"category"`
	Data      map[string]any `json:"data"`
}
