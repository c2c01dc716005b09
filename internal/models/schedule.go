package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a single scheduling item stored in MongoDB. The backend treats the
// scheduling attributes (scores, energy cost, time window) as opaque values;
// planning happens client-side.
type Event struct {
	ID                  primitive.ObjectID `json:"id"                    bson:"_id,omitempty"`
	UserID              string             `json:"user_id"               bson:"user_id"`
	Title               string             `json:"title"                 bson:"title"`
	Description         string             `json:"description"           bson:"description"`
	Date                string             `json:"date"                  bson:"date"`
	StartTime           string             `json:"start_time"            bson:"start_time"`
	EndTime             string             `json:"end_time"              bson:"end_time"`
	Type                string             `json:"type"                  bson:"type"`
	Location            string             `json:"location"              bson:"location"`
	IsScheduled         bool               `json:"is_scheduled"          bson:"is_scheduled"`
	Completed           bool               `json:"completed"             bson:"completed"`
	PriorityScore       float64            `json:"priority_score"        bson:"priority_score"`
	EstimatedEnergyCost float64            `json:"estimated_energy_cost" bson:"estimated_energy_cost"`
	TimeRequired        int                `json:"time_required"         bson:"time_required"`
	CreatedAt           time.Time          `json:"created_at"            bson:"created_at"`
}

// EventCreate is the JSON body for POST /api/events. Fields are an explicit
// allow-list; id, user_id, and created_at can never be set by the caller.
type EventCreate struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Date                string   `json:"date"`
	StartTime           string   `json:"start_time"`
	EndTime             string   `json:"end_time"`
	Type                string   `json:"type"`
	Location            string   `json:"location"`
	IsScheduled         bool     `json:"is_scheduled"`
	Completed           bool     `json:"completed"`
	PriorityScore       *float64 `json:"priority_score"`
	EstimatedEnergyCost *float64 `json:"estimated_energy_cost"`
	TimeRequired        *int     `json:"time_required"`
}

// Event attribute defaults, matching the stored schema defaults.
const (
	DefaultPriorityScore       = 50.0
	DefaultEstimatedEnergyCost = 50.0
	DefaultTimeRequired        = 60
)

// NewEvent builds a stored event for owner userID, applying defaults for
// omitted numeric attributes.
func NewEvent(userID string, req *EventCreate) *Event {
	ev := &Event{
		UserID:              userID,
		Title:               req.Title,
		Description:         req.Description,
		Date:                req.Date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Type:                req.Type,
		Location:            req.Location,
		IsScheduled:         req.IsScheduled,
		Completed:           req.Completed,
		PriorityScore:       DefaultPriorityScore,
		EstimatedEnergyCost: DefaultEstimatedEnergyCost,
		TimeRequired:        DefaultTimeRequired,
	}
	if req.PriorityScore != nil {
		ev.PriorityScore = *req.PriorityScore
	}
	if req.EstimatedEnergyCost != nil {
		ev.EstimatedEnergyCost = *req.EstimatedEnergyCost
	}
	if req.TimeRequired != nil {
		ev.TimeRequired = *req.TimeRequired
	}
	return ev
}

// EventUpdate is the JSON body for PUT /api/events/{id}. Nil fields are left
// unchanged (merge, not replace).
type EventUpdate struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Date                *string  `json:"date"`
	StartTime           *string  `json:"start_time"`
	EndTime             *string  `json:"end_time"`
	Type                *string  `json:"type"`
	Location            *string  `json:"location"`
	IsScheduled         *bool    `json:"is_scheduled"`
	Completed           *bool    `json:"completed"`
	PriorityScore       *float64 `json:"priority_score"`
	EstimatedEnergyCost *float64 `json:"estimated_energy_cost"`
	TimeRequired        *int     `json:"time_required"`
}

// Profile is the per-user energy profile, at most one per account.
type Profile struct {
	ID              primitive.ObjectID `json:"id"               bson:"_id,omitempty"`
	UserID          string             `json:"user_id"          bson:"user_id"`
	EnergyCurve     []int              `json:"energy_curve"     bson:"energy_curve"`
	RemainingEnergy int                `json:"remaining_energy" bson:"remaining_energy"`
	StartHour       int                `json:"start_hour"       bson:"start_hour"`
	EndHour         int                `json:"end_hour"         bson:"end_hour"`
}

// ProfileUpdate is the JSON body for PUT /api/profile. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	EnergyCurve     *[]int `json:"energy_curve"`
	RemainingEnergy *int   `json:"remaining_energy"`
	StartHour       *int   `json:"start_hour"`
	EndHour         *int   `json:"end_hour"`
}

// DefaultProfile returns the fixed profile payload created on first access:
// a 24-entry hourly energy curve, 800 remaining energy, active hours 8-22.
func DefaultProfile(userID string) *Profile {
	return &Profile{
		UserID: userID,
		EnergyCurve: []int{
			50, 50, 50, 50, 60, 70, 90, 100, 100, 90, 80, 70,
			60, 50, 40, 50, 60, 70, 70, 60, 50, 40, 30, 30,
		},
		RemainingEnergy: 800,
		StartHour:       8,
		EndHour:         22,
	}
}
