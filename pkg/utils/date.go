package utils

import (
	"log"
	"sync"
	"time"
)

var (
	wibOnce sync.Once
	wibLoc  *time.Location
)

func GetWibTimeLocation() *time.Location {
	wibOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Jakarta")
		if err != nil {
			log.Printf("Failed to load Asia/Jakarta, using fixed UTC+7: %v", err)
			loc = time.FixedZone("WIB", 7*60*60)
		}
		wibLoc = loc
	})
	return wibLoc
}

func TimeNowWIB() time.Time {
	return time.Now().In(GetWibTimeLocation())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
