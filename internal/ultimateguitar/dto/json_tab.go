package dto

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// GuitarProType is the type_name of Guitar Pro entries in artist listings.
const GuitarProType = "Guitar Pro"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FlexString is a JSON scalar that the site sends either as a string or as a number.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*fs = FlexString(data)
	return nil
}

// JSONTab represents one entry of store.page.data.other_tabs on an artist page.
type JSONTab struct {
	TabURL     string     `json:"tab_url"`
	TypeName   string     `json:"type_name"`
	SongName   string     `json:"song_name"`
	ArtistName string     `json:"artist_name"`
	Version    FlexString `json:"version"`
}

// IsGuitarPro reports whether the entry is a downloadable Guitar Pro tab.
func (jt *JSONTab) IsGuitarPro() bool {
	return jt.TypeName == GuitarProType && jt.TabURL != ""
}

// Title renders "Artist - Song (vN)" for logs, with "Unknown" for missing names.
func (jt *JSONTab) Title() string {
	artist, song := jt.ArtistName, jt.SongName
	if artist == "" {
		artist = "Unknown"
	}
	if song == "" {
		song = "Unknown"
	}
	title := artist + " - " + song
	if jt.Version != "" && jt.Version != "0" {
		title += " (v" + string(jt.Version) + ")"
	}
	return title
}
