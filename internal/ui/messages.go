package ui

import "time"

type reactionExpiredMsg time.Time
