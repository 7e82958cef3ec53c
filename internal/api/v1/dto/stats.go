package dto

import "citadel/internal/model"

// StatsUpdateDTO overwrites the counters that are present.
type StatsUpdateDTO struct {
	TotalEntries  *int `json:"totalEntries" validate:"omitempty,min=0"`
	HoursStudied  *int `json:"hoursStudied" validate:"omitempty,min=0"`
	ActiveRituals *int `json:"activeRituals" validate:"omitempty,min=0"`
	Connections   *int `json:"connections" validate:"omitempty,min=0"`
}

func (d StatsUpdateDTO) ToPatch() model.UserStatsPatch {
	return model.UserStatsPatch{
		TotalEntries:  d.TotalEntries,
		HoursStudied:  d.HoursStudied,
		ActiveRituals: d.ActiveRituals,
		Connections:   d.Connections,
	}
}
