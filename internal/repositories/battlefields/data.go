package battlefields

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Data is the stored shape of a battlefield
type Data struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	ChannelID string             `json:"channel_id"`
	Seed      int64              `json:"seed"`
	Draws     int64              `json:"draws"`
	Kinds     []terrain.Kind     `json:"kinds,omitempty"`
	Features  []*terrain.Feature `json:"features"`
	Log       []string           `json:"log"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func validate(field *battlefield.Battlefield) error {
	if field == nil {
		return terrerr.InvalidArgument("battlefield cannot be nil")
	}
	if field.ID == "" {
		return terrerr.InvalidArgument("battlefield ID cannot be empty")
	}
	if field.OwnerID == "" {
		return terrerr.InvalidArgument("battlefield owner cannot be empty")
	}
	return nil
}

func toData(field *battlefield.Battlefield) *Data {
	return &Data{
		ID:        field.ID,
		OwnerID:   field.OwnerID,
		ChannelID: field.ChannelID,
		Seed:      field.Seed,
		Draws:     field.Draws,
		Kinds:     field.Kinds,
		Features:  field.Features,
		Log:       field.Log,
		CreatedAt: field.CreatedAt,
		UpdatedAt: field.UpdatedAt,
	}
}

func toBattlefield(data *Data) *battlefield.Battlefield {
	return &battlefield.Battlefield{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		ChannelID: data.ChannelID,
		Seed:      data.Seed,
		Draws:     data.Draws,
		Kinds:     data.Kinds,
		Features:  data.Features,
		Log:       data.Log,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func marshal(field *battlefield.Battlefield) ([]byte, error) {
	b, err := json.Marshal(toData(field))
	if err != nil {
		return nil, terrerr.WrapWithCode(err, terrerr.CodeInternal, "failed to serialize battlefield")
	}
	return b, nil
}

func unmarshal(b []byte) (*battlefield.Battlefield, error) {
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, terrerr.WrapWithCode(err, terrerr.CodeInternal, "failed to deserialize battlefield")
	}
	return toBattlefield(&data), nil
}

// clone deep copies a battlefield through its stored form so callers never
// share feature trees with the store
func clone(field *battlefield.Battlefield) (*battlefield.Battlefield, error) {
	b, err := marshal(field)
	if err != nil {
		return nil, err
	}
	return unmarshal(b)
}

func sortByCreated(fields []*battlefield.Battlefield) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].CreatedAt.Equal(fields[j].CreatedAt) {
			return fields[i].ID < fields[j].ID
		}
		return fields[i].CreatedAt.Before(fields[j].CreatedAt)
	})
}
