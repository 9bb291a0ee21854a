package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Option tables are flat name lists the record form picks from. Names are
// not unique; records reference options by name string only, so deleting or
// renaming an option leaves existing records as they are.

type SeriesOption struct {
	BaseUUIDModel
	Name string `gorm:"type:text;not null" json:"name"`
}

func (SeriesOption) TableName() string {
	return "series_options"
}

func (o *SeriesOption) BeforeCreate(tx *gorm.DB) (err error) {
	if err := o.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	return checkOptionName(o.Name)
}

func (o *SeriesOption) BeforeUpdate(tx *gorm.DB) (err error) {
	return checkOptionName(o.Name)
}

type SettingOption struct {
	BaseUUIDModel
	Name string `gorm:"type:text;not null" json:"name"`
}

func (SettingOption) TableName() string {
	return "setting_options"
}

func (o *SettingOption) BeforeCreate(tx *gorm.DB) (err error) {
	if err := o.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	return checkOptionName(o.Name)
}

func (o *SettingOption) BeforeUpdate(tx *gorm.DB) (err error) {
	return checkOptionName(o.Name)
}

type FinishOption struct {
	BaseUUIDModel
	Name string `gorm:"type:text;not null" json:"name"`
}

func (FinishOption) TableName() string {
	return "finish_options"
}

func (o *FinishOption) BeforeCreate(tx *gorm.DB) (err error) {
	if err := o.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	return checkOptionName(o.Name)
}

func (o *FinishOption) BeforeUpdate(tx *gorm.DB) (err error) {
	return checkOptionName(o.Name)
}

// StoreOption carries the extended per-store profile on top of the plain
// name tag the other option tables hold.
type StoreOption struct {
	BaseUUIDModel
	Name             string                      `gorm:"type:text;not null" json:"name"`
	PhotoURL         *string                     `gorm:"type:text"          json:"photoUrl,omitempty"`
	Location         *string                     `gorm:"type:text"          json:"location,omitempty"`
	URL              *string                     `gorm:"type:text"          json:"url,omitempty"`
	BoothCountRating *int                        `gorm:"type:int"           json:"boothCountRating,omitempty"`
	BoothSettings    *string                     `gorm:"type:text"          json:"boothSettings,omitempty"`
	Memo             *string                     `gorm:"type:text"          json:"memo,omitempty"`
	InteriorPhotos   datatypes.JSONSlice[string] `                          json:"interiorPhotos"`
}

func (StoreOption) TableName() string {
	return "store_options"
}

func (o *StoreOption) BeforeCreate(tx *gorm.DB) (err error) {
	if err := o.BaseUUIDModel.BeforeCreate(tx); err != nil {
		return err
	}
	return o.checkInvariants()
}

func (o *StoreOption) BeforeUpdate(tx *gorm.DB) (err error) {
	return o.checkInvariants()
}

func (o *StoreOption) checkInvariants() error {
	if err := checkOptionName(o.Name); err != nil {
		return err
	}
	if o.BoothCountRating != nil && (*o.BoothCountRating < 0 || *o.BoothCountRating > 10) {
		return gorm.ErrInvalidValue
	}
	return nil
}

func checkOptionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
