package account

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typesymphony/internal/model"
)

// storedUser is the persisted JSON shape of a user.
type storedUser struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"passwordHash,omitempty"`
	Password     string              `json:"password,omitempty"`
	Scores       []model.ScoreRecord `json:"scores"`
}

// rawUser accepts anything older versions or hand edits may have written.
type rawUser struct {
	ID           any             `json:"id"`
	Name         any             `json:"name"`
	Email        any             `json:"email"`
	PasswordHash any             `json:"passwordHash"`
	Password     any             `json:"password"`
	Scores       json.RawMessage `json:"scores"`
}

type rawScore struct {
	WPM      any `json:"wpm"`
	Accuracy any `json:"accuracy"`
	Date     any `json:"date"`
}

func toStored(u model.User) storedUser {
	scores := u.Scores
	if scores == nil {
		scores = []model.ScoreRecord{}
	}
	return storedUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Password:     u.Password,
		Scores:       scores,
	}
}

func encodeUser(u model.User) (string, error) {
	data, err := json.Marshal(toStored(u))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// userList is the decoded users record. Elements that did not decode to a
// user are kept verbatim in kept and written back at their position.
type userList struct {
	users []model.User
	kept  []keptRecord
}

// keptRecord is an undecodable element that preceded users[before].
type keptRecord struct {
	before int
	raw    json.RawMessage
}

func encodeUsers(list userList) (string, error) {
	items := make([]json.RawMessage, 0, len(list.users)+len(list.kept))
	k := 0
	for i, u := range list.users {
		for ; k < len(list.kept) && list.kept[k].before <= i; k++ {
			items = append(items, list.kept[k].raw)
		}
		data, err := json.Marshal(toStored(u))
		if err != nil {
			return "", err
		}
		items = append(items, data)
	}
	for ; k < len(list.kept); k++ {
		items = append(items, list.kept[k].raw)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeUsers parses the users list. Anything that is not a JSON array yields
// an empty list; elements that are not objects, or have no id, are hidden
// from callers but kept for the next save.
func decodeUsers(data string) userList {
	var list userList
	if strings.TrimSpace(data) == "" {
		return list
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Warn().Err(err).Msg("users record is not a JSON array; treating as empty")
		return list
	}
	list.users = make([]model.User, 0, len(items))
	for i, item := range items {
		u, err := decodeUser(item)
		if err != nil || u.ID == "" {
			log.Warn().Err(err).Int("index", i).Msg("skipping unusable user record")
			list.kept = append(list.kept, keptRecord{before: len(list.users), raw: item})
			continue
		}
		list.users = append(list.users, u)
	}
	return list
}

func decodeUser(data []byte) (model.User, error) {
	var raw rawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:           toString(raw.ID),
		Name:         toString(raw.Name),
		Email:        toString(raw.Email),
		PasswordHash: credential(raw.PasswordHash),
		Password:     credential(raw.Password),
		Scores:       decodeScores(raw.Scores),
	}, nil
}

func decodeScores(data json.RawMessage) []model.ScoreRecord {
	scores := []model.ScoreRecord{}
	if len(data) == 0 {
		return scores
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return scores
	}
	for _, item := range items {
		var raw rawScore
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		scores = append(scores, model.ScoreRecord{
			WPM:      clampInt(toInt(raw.WPM), 0, math.MaxInt32),
			Accuracy: clampInt(toInt(raw.Accuracy), 0, 100),
			Date:     toTime(raw.Date),
		})
	}
	return scores
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// credential returns a stored secret exactly as written.
func credential(v any) string {
	s, _ := v.(string)
	return s
}

func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		if t > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(math.Round(t))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return toInt(f)
	default:
		return 0
	}
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}
		}
		return parsed
	case float64:
		// Milliseconds since the epoch.
		return time.UnixMilli(int64(t)).UTC()
	default:
		return time.Time{}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
