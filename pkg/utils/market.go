package utils

import "time"

// pktOffset is Pakistan Standard Time. No DST.
var pktZone = time.FixedZone("PKT", 5*60*60)

// MarketHours describes one trading session in PKT.
type MarketHours struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// PSXRegularSession is the regular Monday-to-Thursday session.
var PSXRegularSession = MarketHours{OpenHour: 9, OpenMinute: 32, CloseHour: 15, CloseMinute: 30}

// PSXFridaySession is the shorter Friday session.
var PSXFridaySession = MarketHours{OpenHour: 9, OpenMinute: 17, CloseHour: 13, CloseMinute: 0}

// IsMarketOpen reports whether the exchange is in session at the given
// instant. Weekends are always closed; holidays are not modeled.
func IsMarketOpen(t time.Time) bool {
	local := t.In(pktZone)

	var session MarketHours
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	case time.Friday:
		session = PSXFridaySession
	default:
		session = PSXRegularSession
	}

	minutes := local.Hour()*60 + local.Minute()
	open := session.OpenHour*60 + session.OpenMinute
	close := session.CloseHour*60 + session.CloseMinute
	return minutes >= open && minutes <= close
}
