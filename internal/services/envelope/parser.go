package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/gabrielcapilla/roomsync/internal/domain"
)

// Parse decodes body as it arrived on channel. Every failure is scoped to
// this body alone: callers log it and move on to the next frame.
func Parse(channel Channel, body []byte) (Message, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	tag, err := jsonparser.GetString(body, "type")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("%w: missing type", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: type: %v", ErrMalformed, err)
	}

	t := Type(tag)
	if !channel.Accepts(t) {
		return nil, fmt.Errorf("%w: %q on %s channel", ErrUnregisteredType, tag, channel)
	}

	switch t {
	case TypeError:
		return ErrorMessage{
			Code:    scalar(body, "code"),
			Message: scalar(body, "message"),
		}, nil
	case TypeEmoji:
		var reaction domain.Reaction
		if err := decodeData(body, &reaction); err != nil {
			return nil, err
		}
		return EmojiMessage{Reaction: reaction}, nil
	case TypePlaylistItemAdd:
		var item domain.PlaylistItem
		if err := decodeData(body, &item); err != nil {
			return nil, err
		}
		return PlaylistItemAddMessage{Item: item}, nil
	case TypePlaylistItemRequest:
		var item domain.PlaylistItem
		if err := decodeData(body, &item); err != nil {
			return nil, err
		}
		return PlaylistItemRequestMessage{Item: item}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnregisteredType, tag)
}

// scalar returns the field as text whether the server sent a string or a
// number; missing fields come back empty.
func scalar(body []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(body, key)
	if err != nil || dataType == jsonparser.Null {
		return ""
	}
	if dataType == jsonparser.String {
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
	}
	return string(value)
}

func decodeData(body []byte, v any) error {
	data, dataType, _, err := jsonparser.Get(body, "data")
	if err != nil {
		return fmt.Errorf("%w: missing data", ErrMalformed)
	}
	if dataType != jsonparser.Object {
		return fmt.Errorf("%w: data is %s, want object", ErrMalformed, dataType)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: data: %v", ErrMalformed, err)
	}
	return nil
}
