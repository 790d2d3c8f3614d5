package hastus

// UniqueRouteLabel synthesizes the Jore4 unique route label from a Hastus
// trip's route (line number) and variant.
//
// The rule is a direct port of the observed Hastus convention and is
// intentionally asymmetric. Variants "", "1" and "2" collapse to the plain
// line number. A variant ending in a digit has that digit stripped; if the
// digit was 1 or 2 it is dropped entirely, otherwise it is re-appended after
// an underscore. Variants not ending in a digit are appended as-is.
//
//	("123", "")   -> "123"
//	("123", "2")  -> "123"
//	("123", "B")  -> "123B"
//	("123", "B1") -> "123B"
//	("123", "B3") -> "123B_3"
func UniqueRouteLabel(routeLabel, variant string) string {
	switch variant {
	case "", "1", "2":
		return routeLabel
	}

	last := variant[len(variant)-1]
	if last < '0' || last > '9' {
		return routeLabel + variant
	}

	stripped := variant[:len(variant)-1]
	if last == '1' || last == '2' {
		return routeLabel + stripped
	}
	return routeLabel + stripped + "_" + string(last)
}
