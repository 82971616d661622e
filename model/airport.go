package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Airport struct {
	Id      int    `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Airline struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// Place is an airport reference embedded in booking records. The API sends
// it either as an object or as a preformatted "City (CODE)" string.
type Place struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

func (p *Place) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*p = parsePlaceLabel(label)
		return nil
	}
	type rawPlace Place
	var raw rawPlace
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Place(raw)
	return nil
}

func (p Place) String() string {
	switch {
	case p.City != "" && p.Code != "":
		return fmt.Sprintf("%s (%s)", p.City, p.Code)
	case p.Code != "":
		return p.Code
	default:
		return p.City
	}
}

func (p Place) IsZero() bool {
	return p.Code == "" && p.City == "" && p.Name == ""
}

func parsePlaceLabel(label string) Place {
	label = strings.TrimSpace(label)
	open := strings.LastIndex(label, "(")
	if open < 0 || !strings.HasSuffix(label, ")") {
		if len(label) == 3 && strings.ToUpper(label) == label {
			return Place{Code: label}
		}
		return Place{City: label}
	}
	return Place{
		City: strings.TrimSpace(label[:open]),
		Code: strings.TrimSpace(label[open+1 : len(label)-1]),
	}
}
