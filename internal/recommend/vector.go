package recommend

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

const (
	categoryPrefix = "category_"
	locationPrefix = "location_"
	pricePrefix    = "price_"

	// ratingAmplifier scales category weight by the user's average review.
	ratingAmplifier = 0.2
)

// Price buckets of an hourly rate. Thresholds are in NPR.
const (
	PriceLow     = "low"
	PriceMedium  = "medium"
	PriceHigh    = "high"
	PricePremium = "premium"
)

// FeatureVector is a sparse mapping from feature key to a non-negative weight.
// Only non-zero entries are stored.
type FeatureVector map[string]float64

func (v FeatureVector) add(key string, weight float64) {
	if weight <= 0 {
		return
	}
	v[key] += weight
}

// PriceRangeBucket discretises an hourly rate. Each bucket excludes its upper
// bound: 500 is medium, 1000 is high, 1500 is premium.
func PriceRangeBucket(rate float64) string {
	switch {
	case rate < 500:
		return PriceLow
	case rate < 1000:
		return PriceMedium
	case rate < 1500:
		return PriceHigh
	default:
		return PricePremium
	}
}

// CategoryKey returns the feature key for a category id.
func CategoryKey(categoryID int64) string {
	return categoryPrefix + strconv.FormatInt(categoryID, 10)
}

// LocationKey returns the feature key for a free-text location. The hash only
// makes the key opaque and stable.
func LocationKey(location string) string {
	sum := md5.Sum([]byte(location))
	return locationPrefix + hex.EncodeToString(sum[:])
}

// PriceKey returns the feature key of the bucket the rate falls into.
func PriceKey(rate float64) string {
	return pricePrefix + PriceRangeBucket(rate)
}

// BuildWorkerVector describes a worker by category, location and price bucket,
// each with weight 1.
func BuildWorkerVector(w Worker) FeatureVector {
	return FeatureVector{
		CategoryKey(w.CategoryID): 1.0,
		LocationKey(w.Location):   1.0,
		PriceKey(w.HourlyRate):    1.0,
	}
}

// UserPreferenceVector folds grouped booking history into a preference vector.
// Every weight is the group's share of all bookings; the category share is
// further multiplied by 1 + 0.2 × average rating.
func UserPreferenceVector(history []HistoryRow) FeatureVector {
	vector := FeatureVector{}

	total := 0
	for _, row := range history {
		if row.BookingCount > 0 {
			total += row.BookingCount
		}
	}
	if total == 0 {
		return vector
	}

	for _, row := range history {
		if row.BookingCount <= 0 {
			continue
		}
		share := float64(row.BookingCount) / float64(total)

		vector.add(CategoryKey(row.CategoryID), share*(1+ratingAmplifier*row.AvgRating))
		vector.add(LocationKey(row.Location), share)
		vector.add(PriceKey(row.HourlyRate), share)
	}

	return vector
}
