package memory_test

import (
	"testing"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/store/memory"
	"github.com/warp/rolling-engine/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(*testing.T) calendar.Store { return memory.New() })
}
