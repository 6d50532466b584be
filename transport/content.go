////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package transport

// ContentType names one payload kind of the chat service.
type ContentType string

const (
	TypeText      ContentType = "text"
	TypePhoto     ContentType = "photo"
	TypeAudio     ContentType = "audio"
	TypeDocument  ContentType = "document"
	TypeVideo     ContentType = "video"
	TypeVoice     ContentType = "voice"
	TypeVideoNote ContentType = "video_note"
	TypeAnimation ContentType = "animation"
	TypeSticker   ContentType = "sticker"
	TypeLocation  ContentType = "location"
	TypeVenue     ContentType = "venue"
	TypeContact   ContentType = "contact"
)

// Content is the tagged union over event payloads. Each variant carries
// only the fields needed to duplicate that payload into another chat.
type Content interface {
	Type() ContentType
}

type Text struct {
	Body string
}

type Photo struct {
	FileID  string
	Caption string
	Width   int
	Height  int
}

type Audio struct {
	FileID    string
	Caption   string
	Performer string
	Title     string
}

type Document struct {
	FileID  string
	Caption string
}

type Video struct {
	FileID  string
	Caption string
}

type Voice struct {
	FileID  string
	Caption string
}

type VideoNote struct {
	FileID string
}

type Animation struct {
	FileID  string
	Caption string
}

type Sticker struct {
	FileID string
}

type Location struct {
	Latitude  float64
	Longitude float64
}

type Venue struct {
	Latitude        float64
	Longitude       float64
	Title           string
	Address         string
	FoursquareID    string
	FoursquareType  string
	GooglePlaceID   string
	GooglePlaceType string
}

type Contact struct {
	PhoneNumber string
	FirstName   string
	LastName    string
}

func (*Text) Type() ContentType      { return TypeText }
func (*Photo) Type() ContentType     { return TypePhoto }
func (*Audio) Type() ContentType     { return TypeAudio }
func (*Document) Type() ContentType  { return TypeDocument }
func (*Video) Type() ContentType     { return TypeVideo }
func (*Voice) Type() ContentType     { return TypeVoice }
func (*VideoNote) Type() ContentType { return TypeVideoNote }
func (*Animation) Type() ContentType { return TypeAnimation }
func (*Sticker) Type() ContentType   { return TypeSticker }
func (*Location) Type() ContentType  { return TypeLocation }
func (*Venue) Type() ContentType     { return TypeVenue }
func (*Contact) Type() ContentType   { return TypeContact }
