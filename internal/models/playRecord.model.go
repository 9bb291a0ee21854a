package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlayDateLayout is the wire and storage format of a record's date. The date
// is kept as the user-entered string; calendar math parses it on demand.
const PlayDateLayout = "2006-01-02"

type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLose GameResult = "lose"
)

func (r GameResult) IsValid() bool {
	return r == ResultWin || r == ResultLose
}

type StartType string

const (
	StartTypeInitial      StartType = "initial"
	StartTypeContinuation StartType = "continuation"
)

func (s StartType) IsValid() bool {
	return s == StartTypeInitial || s == StartTypeContinuation
}

type PlayEventType string

const (
	EventAssist PlayEventType = "assist"
	EventReset  PlayEventType = "reset"
)

func (t PlayEventType) IsValid() bool {
	return t == EventAssist || t == EventReset
}

// PlayEvent is an in-session annotation captured at the move counter's value
// when the user tapped it. The counter can be decremented afterwards, so move
// numbers are not guaranteed monotonic across the sequence.
type PlayEvent struct {
	Type      PlayEventType `json:"type"`
	Move      int           `json:"move"`
	Timestamp *int64        `json:"timestamp,omitempty"`
}

// PlayRecord is one logged attempt at winning a prize. Store, series,
// setting, and finish references are denormalized name strings; renaming an
// option never cascades here.
type PlayRecord struct {
	BaseUUIDModel
	Date        string                         `gorm:"type:text;not null;index:idx_records_date"   json:"date"`
	StoreName   string                         `gorm:"type:text;not null"                          json:"storeName"`
	PrizeName   string                         `gorm:"type:text;not null"                          json:"prizeName"`
	CostPerPlay int                            `gorm:"type:int;not null"                           json:"costPerPlay"`
	Moves       int                            `gorm:"type:int;not null"                           json:"moves"`
	TotalCost   int                            `gorm:"type:int;not null"                           json:"totalCost"`
	Result      GameResult                     `gorm:"type:text;not null;index:idx_records_result" json:"result"`
	PhotoURL    *string                        `gorm:"type:text"                                   json:"photoUrl,omitempty"`
	StartType   *StartType                     `gorm:"type:text"                                   json:"startType,omitempty"`
	Events      datatypes.JSONSlice[PlayEvent] `                                                   json:"events"`
	HasAssist   bool                           `gorm:"not null;default:false"                      json:"hasAssist"`
	AssistAt    *int                           `gorm:"type:int"                                    json:"assistAt,omitempty"`
	Memo        *string                        `gorm:"type:text"                                   json:"memo,omitempty"`
	SeriesName  *string                        `gorm:"type:text"                                   json:"seriesName,omitempty"`
	SettingName *string                        `gorm:"type:text"                                   json:"settingName,omitempty"`
	FinishType  *string                        `gorm:"type:text"                                   json:"finishType,omitempty"`
}

func (PlayRecord) TableName() string {
	return "records"
}

func (r *PlayRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if err := r.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	return r.checkInvariants()
}

func (r *PlayRecord) BeforeUpdate(tx *gorm.DB) (err error) {
	return r.checkInvariants()
}

func (r *PlayRecord) checkInvariants() error {
	if _, err := time.Parse(PlayDateLayout, r.Date); err != nil {
		return gorm.ErrInvalidValue
	}
	if r.CostPerPlay < 1 || r.Moves < 1 {
		return gorm.ErrInvalidValue
	}
	if !r.Result.IsValid() {
		return gorm.ErrInvalidValue
	}
	if r.StartType != nil && !r.StartType.IsValid() {
		return gorm.ErrInvalidValue
	}
	for _, event := range r.Events {
		if !event.Type.IsValid() || event.Move < 1 {
			return gorm.ErrInvalidValue
		}
	}
	return nil
}

// PlayDate parses the record's date string.
func (r *PlayRecord) PlayDate() (time.Time, error) {
	return time.Parse(PlayDateLayout, r.Date)
}

// ComputeTotalCost returns costPerPlay × moves. TotalCost is never taken from
// client input; every save path recomputes it through here.
func (r *PlayRecord) ComputeTotalCost() int {
	return r.CostPerPlay * r.Moves
}

// Normalize reconciles the legacy assist fields with the events sequence.
// Records written before events existed carry only hasAssist/assistAt; for
// those a synthetic assist event is materialized. When events are present
// they are authoritative and the legacy fields are rederived from the first
// assist event. Applied at read time; stored rows are left untouched.
func (r *PlayRecord) Normalize() {
	if len(r.Events) == 0 && r.HasAssist {
		move := 1
		if r.AssistAt != nil && *r.AssistAt >= 1 {
			move = *r.AssistAt
		}
		r.Events = datatypes.JSONSlice[PlayEvent]{{Type: EventAssist, Move: move}}
	}

	r.HasAssist = false
	r.AssistAt = nil
	for _, event := range r.Events {
		if event.Type == EventAssist {
			move := event.Move
			r.HasAssist = true
			r.AssistAt = &move
			break
		}
	}
}
