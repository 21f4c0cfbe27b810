package api

// Deck is a named collection of cards tagged with a target language.
type Deck struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// Card is a front/back text pair belonging to one deck. Draft cards are
// withheld from practice.
type Card struct {
	ID        int64  `json:"id"`
	DeckID    int64  `json:"deck_id"`
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
	Draft     bool   `json:"draft"`
}

// Language is static reference data served by /languages.
type Language struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	NameLocal string `json:"name_local"`
	ISOCode   string `json:"isocode"`
	Sorting   int    `json:"sorting"`
}

// Translation is a single dictionary match for a looked-up word.
type Translation struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// TokenPair mirrors the payload returned by /user/register and /token/pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type deckListResponse struct {
	Items []Deck `json:"items"`
}

type cardListResponse struct {
	Items []Card `json:"items"`
}

type languageListResponse struct {
	Items []Language `json:"items"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DeckFields carries the writable fields of a deck for create/update calls.
type DeckFields struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// CardFields carries the writable fields of a card for create/update calls.
type CardFields struct {
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
	Draft     bool   `json:"draft"`
}
