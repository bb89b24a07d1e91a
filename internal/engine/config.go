package engine

// Weights tune the position evaluator.
type Weights struct {
	Defended             float64 `json:"dw"`  // base value of a defended cell
	Undefended           float64 `json:"uw"`  // base value of an undefended cell
	DefendedPopularity   float64 `json:"dpw"` // bonus for defending a rare letter
	UndefendedPopularity float64 `json:"upw"` // bonus from neighbour popularity
	Centroid             float64 `json:"mw"`  // weight of distance from the unclaimed centroid
}

// DefaultWeights are the tuned weights of the stock player.
func DefaultWeights() Weights {
	return Weights{
		Defended:             3.1,
		Undefended:           1,
		DefendedPopularity:   1.28,
		UndefendedPopularity: 2.29,
		Centroid:             7.78,
	}
}

// Config holds solver settings shared by every deal.
type Config struct {
	Weights Weights

	// WordSizeLimit is an exclusive upper bound on playable word length.
	WordSizeLimit int

	// GoalWordCutoff disables goal planning once the longest playable word
	// reaches this length.
	GoalWordCutoff int

	// BucketSortMin is the result count at which Search switches to
	// bucketing plays by score.
	BucketSortMin int
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Weights:        DefaultWeights(),
		WordSizeLimit:  25,
		GoalWordCutoff: 13,
		BucketSortMin:  4096,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Weights == (Weights{}) {
		c.Weights = def.Weights
	}
	if c.WordSizeLimit <= 0 {
		c.WordSizeLimit = def.WordSizeLimit
	}
	if c.GoalWordCutoff <= 0 {
		c.GoalWordCutoff = def.GoalWordCutoff
	}
	if c.BucketSortMin <= 0 {
		c.BucketSortMin = def.BucketSortMin
	}
	return c
}
