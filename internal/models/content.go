package models

type Quote struct {
	Text   string `json:"q"`
	Author string `json:"a"`
}

type Sound struct {
	SoundURL string `json:"soundUrl"`
}
