package enums

// MileageRange buckets a vehicle's odometer reading before it is shared as
// anonymized market data.
type MileageRange string

const (
	MileageRange0To10k    MileageRange = "0-10k"
	MileageRange10kTo30k  MileageRange = "10k-30k"
	MileageRange30kTo50k  MileageRange = "30k-50k"
	MileageRange50kTo75k  MileageRange = "50k-75k"
	MileageRange75kTo100k MileageRange = "75k-100k"
	MileageRange100kPlus  MileageRange = "100k+"
	MileageRangeOther     MileageRange = "other"
)

var validMileageRanges = []MileageRange{
	MileageRange0To10k,
	MileageRange10kTo30k,
	MileageRange30kTo50k,
	MileageRange50kTo75k,
	MileageRange75kTo100k,
	MileageRange100kPlus,
	MileageRangeOther,
}

// IsValid checks whether the given bucket matches the canonical set.
func (m MileageRange) IsValid() bool {
	for _, candidate := range validMileageRanges {
		if candidate == m {
			return true
		}
	}
	return false
}

// BucketMileage generalizes an exact mileage into its range. Unknown or
// non-positive readings fall back to "other".
func BucketMileage(mileage int) MileageRange {
	switch {
	case mileage <= 0:
		return MileageRangeOther
	case mileage <= 10000:
		return MileageRange0To10k
	case mileage <= 30000:
		return MileageRange10kTo30k
	case mileage <= 50000:
		return MileageRange30kTo50k
	case mileage <= 75000:
		return MileageRange50kTo75k
	case mileage <= 100000:
		return MileageRange75kTo100k
	default:
		return MileageRange100kPlus
	}
}
