package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentTypeMovie   = "movie"
	ContentTypeTvShow  = "tvshow"
	ContentTypeEpisode = "episode"
)

const (
	AccessTypeFree         = "free"
	AccessTypeSubscription = "subscription"
	AccessTypePayPerView   = "pay_per_view"
)

// Content is implemented by every catalog item that carries access rules.
type Content interface {
	ContentType() string
	ContentID() uint
	ContentAccessType() string
	AllowedPlanIDs() []uint
}

// Movie is a standalone title. An empty AllowedPlans list means any plan qualifies.
type Movie struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null;index" json:"title" validate:"required,min=1,max=255"`
	Description  string         `gorm:"type:text" json:"description"`
	ReleaseDate  *time.Time     `gorm:"type:date;default:null" json:"release_date,omitempty"`
	Rating       float64        `gorm:"default:0" json:"rating" validate:"gte=0,lte=10"`
	AccessType   string         `gorm:"type:varchar(20);not null;default:'subscription';index" json:"access_type" validate:"required,oneof=free subscription pay_per_view"`
	AllowedPlans []Plan         `gorm:"many2many:movie_allowed_plans;" json:"allowed_plans"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Movie) ContentType() string       { return ContentTypeMovie }
func (m *Movie) ContentID() uint           { return m.ID }
func (m *Movie) ContentAccessType() string { return m.AccessType }
func (m *Movie) AllowedPlanIDs() []uint    { return planIDs(m.AllowedPlans) }

// TvShow groups episodes. Its own access rules gate the show page; every
// episode carries its own rules for playback.
type TvShow struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null;index" json:"title" validate:"required,min=1,max=255"`
	Description  string         `gorm:"type:text" json:"description"`
	Rating       float64        `gorm:"default:0" json:"rating" validate:"gte=0,lte=10"`
	AccessType   string         `gorm:"type:varchar(20);not null;default:'subscription';index" json:"access_type" validate:"required,oneof=free subscription pay_per_view"`
	AllowedPlans []Plan         `gorm:"many2many:tv_show_allowed_plans;" json:"allowed_plans"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *TvShow) ContentType() string       { return ContentTypeTvShow }
func (s *TvShow) ContentID() uint           { return s.ID }
func (s *TvShow) ContentAccessType() string { return s.AccessType }
func (s *TvShow) AllowedPlanIDs() []uint    { return planIDs(s.AllowedPlans) }

// Episode belongs to a TvShow.
type Episode struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TvShowID      uint           `gorm:"not null;index:idx_episodes_show_order,priority:1" json:"tv_show_id"`
	SeasonNumber  int            `gorm:"not null;default:1;index:idx_episodes_show_order,priority:2" json:"season_number" validate:"gte=1"`
	EpisodeNumber int            `gorm:"not null;default:1;index:idx_episodes_show_order,priority:3" json:"episode_number" validate:"gte=1"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Description   string         `gorm:"type:text" json:"description"`
	ReleaseDate   *time.Time     `gorm:"type:date;default:null" json:"release_date,omitempty"`
	Rating        float64        `gorm:"default:0" json:"rating" validate:"gte=0,lte=10"`
	AccessType    string         `gorm:"type:varchar(20);not null;default:'subscription';index" json:"access_type" validate:"required,oneof=free subscription pay_per_view"`
	AllowedPlans  []Plan         `gorm:"many2many:episode_allowed_plans;" json:"allowed_plans"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Episode) ContentType() string       { return ContentTypeEpisode }
func (e *Episode) ContentID() uint           { return e.ID }
func (e *Episode) ContentAccessType() string { return e.AccessType }
func (e *Episode) AllowedPlanIDs() []uint    { return planIDs(e.AllowedPlans) }

func planIDs(plans []Plan) []uint {
	ids := make([]uint, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	return ids
}
