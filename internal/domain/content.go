package domain

import "time"

// Review moderation states.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Review struct {
	Id         int64      `json:"id"`
	AuthorName string     `json:"authorName"`
	Email      Email      `json:"email,omitempty"`
	Rating     int        `json:"rating"`
	Content    string     `json:"content"`
	Status     string     `json:"status,omitempty"`
	UserId     *UserId    `json:"-"`
	Ip         string     `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type ReviewStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Approved      int     `json:"approved"`
	AverageRating float64 `json:"averageRating"`
}

// Blog post states.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

type BlogPost struct {
	Id        int64      `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content,omitempty"`
	Excerpt   string     `json:"excerpt"`
	Category  string     `json:"category"`
	Status    string     `json:"status,omitempty"`
	Views     int64      `json:"views"`
	AuthorId  *UserId    `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type BlogStats struct {
	Total      int   `json:"total"`
	Published  int   `json:"published"`
	Drafts     int   `json:"drafts"`
	TotalViews int64 `json:"totalViews"`
}

// Announcement types shown on the landing page.
const (
	AnnouncementNewApp  = "new_app"
	AnnouncementUpdate  = "update"
	AnnouncementGeneral = "announcement"
)

type Announcement struct {
	Id        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact submission states.
const (
	ContactUnread  = "unread"
	ContactRead    = "read"
	ContactReplied = "replied"
)

type ContactSubmission struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     Email     `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Ip        string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings is the site_settings key/value table materialized as a map.
type Settings = map[string]string

// SettingKeys is the allow-list of keys admins may write.
var SettingKeys = []string{
	"site_name",
	"site_description",
	"contact_email",
	"app_store_url",
	"play_store_url",
	"released_apps",
}

// AppKeys is the fixed catalogue of portfolio apps whose release state is
// tracked in the released_apps setting (comma-separated keys).
var AppKeys = []string{
	"wayback", "wayfit", "waymuscle", "waybrain", "wayview",
	"waysound", "waylog", "wayspot", "wayrest", "waystory",
}

type AppRelease struct {
	Key      string `json:"key"`
	Released bool   `json:"released"`
}

type VisitorStats struct {
	UniqueVisitors int `json:"uniqueVisitors"`
	TotalVisits    int `json:"totalVisits"`
}

type PageViews struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

// Dashboard is the admin console summary.
type Dashboard struct {
	Reviews        ReviewStats  `json:"reviews"`
	Blog           BlogStats    `json:"blog"`
	UnreadContacts int          `json:"unreadContacts"`
	Visitors       VisitorStats `json:"visitors"`
	TopPages       []PageViews  `json:"topPages"`
}
