package realtime

import (
	"strconv"
	"strings"
)

// Destination names shared with the room server.
const (
	roomTopicPrefix   = "/topic/v1/rooms/"
	DirectDestination = "/user/queue"

	roomIDPlaceholder = "{roomId}"
)

// BroadcastDestination is the topic every participant of roomID subscribes to.
func BroadcastDestination(roomID int64) string {
	return roomTopicPrefix + strconv.FormatInt(roomID, 10)
}

// ExpandRoom substitutes {roomId} in a configured destination template.
func ExpandRoom(template string, roomID int64) string {
	return strings.ReplaceAll(template, roomIDPlaceholder, strconv.FormatInt(roomID, 10))
}

func bearer(token string) string {
	return "Bearer " + token
}
