package events

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/catspots/types/inference"
)

// InferencesFeed is emitted for every inference run that was persisted,
// successful or not.
var InferencesFeed = event.FeedOf[*inference.Result]{}
