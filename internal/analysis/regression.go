package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"soundwatch/internal/domain/tweet"
)

// Log1p is the count transform used for skewed engagement counts:
// log(count + 1), exactly 0 for a count of 0.
func Log1p(count int) float64 {
	return math.Log1p(float64(count))
}

// Observation is one row of the regression design: the transformed
// response and its covariates.
type Observation struct {
	Response   float64
	Covariates []float64
}

// RetweetCovariates are the covariate names for RetweetObservations, in
// column order.
var RetweetCovariates = []string{"has_media", "has_url", "is_retweet", "log_followers"}

// RetweetObservations builds the retweet model rows from a corpus:
// log(retweet_count+1) against media/URL/retweet flags and the author's
// log follower count. Tweets without a fetched author get 0 followers.
func RetweetObservations(corpus *tweet.Corpus) []Observation {
	obs := make([]Observation, 0, len(corpus.Tweets))
	for _, t := range corpus.Tweets {
		followers := 0
		if u, ok := corpus.AuthorOf(t); ok {
			followers = u.Followers
		}

		obs = append(obs, Observation{
			Response: Log1p(t.RetweetCount),
			Covariates: []float64{
				boolCovariate(t.HasMedia),
				boolCovariate(t.HasURL),
				boolCovariate(t.IsRetweet),
				Log1p(followers),
			},
		})
	}
	return obs
}

func boolCovariate(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Fit is a fitted linear model.
type Fit struct {
	Names        []string  `json:"names"`
	Coefficients []float64 `json:"coefficients"`
	R2           float64   `json:"r2"`
	N            int       `json:"n"`
}

// FitLinear fits response ~ intercept + covariates by least squares.
// names labels the covariate columns; the intercept is prepended as
// "(intercept)".
func FitLinear(obs []Observation, names []string) (*Fit, error) {
	n := len(obs)
	p := len(names)
	if n == 0 {
		return nil, fmt.Errorf("no observations to fit")
	}
	if n <= p+1 {
		return nil, fmt.Errorf("need more than %d observations to fit %d covariates, got %d", p+1, p, n)
	}

	x := mat.NewDense(n, p+1, nil)
	y := mat.NewVecDense(n, nil)
	for i, o := range obs {
		if len(o.Covariates) != p {
			return nil, fmt.Errorf("observation %d has %d covariates, want %d", i, len(o.Covariates), p)
		}
		x.Set(i, 0, 1)
		for j, v := range o.Covariates {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, o.Response)
	}

	var beta mat.Dense
	if err := beta.Solve(x, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	coefs := make([]float64, p+1)
	for j := range coefs {
		coefs[j] = beta.At(j, 0)
	}

	// R² from residuals against the mean-only model.
	responses := make([]float64, n)
	for i, o := range obs {
		responses[i] = o.Response
	}
	mean := stat.Mean(responses, nil)

	var ssRes, ssTot float64
	for _, o := range obs {
		pred := coefs[0]
		for j, v := range o.Covariates {
			pred += coefs[j+1] * v
		}
		ssRes += (o.Response - pred) * (o.Response - pred)
		ssTot += (o.Response - mean) * (o.Response - mean)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return &Fit{
		Names:        append([]string{"(intercept)"}, names...),
		Coefficients: coefs,
		R2:           r2,
		N:            n,
	}, nil
}
