package domain

// PairSeparator joins the two currencies of a pair key.
const PairSeparator = " → "

// Pair is an ordered (from, to) currency combination. It is derived from
// records and never persisted.
type Pair struct {
	Key  string `json:"key"`
	From string `json:"from"`
	To   string `json:"to"`
}

func PairKey(from, to string) string { return from + PairSeparator + to }

func NewPair(from, to string) Pair {
	return Pair{Key: PairKey(from, to), From: from, To: to}
}
