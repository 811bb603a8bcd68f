package lappd

// Pulse is the share of one photon charge cloud collected by one strip.
// Times are in ps and the peak in mV.
type Pulse struct {
	Time      float64
	LeftTime  float64
	RightTime float64
	Peak      float64
	Strip     int
}

// TransitTime returns the propagation delay towards the given strip end.
func (p Pulse) TransitTime(side Side) float64 {
	if side == Left {
		return p.LeftTime
	}
	return p.RightTime
}

// ArrivalTime returns when the pulse reaches the given strip end.
func (p Pulse) ArrivalTime(side Side) float64 {
	return p.Time + p.TransitTime(side)
}
