package pricing

import (
	"cmp"
	"slices"
)

// SelectCampaigns returns the campaigns that take part in a calculation.
//
// Scanning in input order, the first campaign seen for each tag is kept and
// later campaigns sharing that tag are dropped. Survivors are then ordered
// Coupon, OnTop, Seasonal. The input slice is left untouched.
func SelectCampaigns(campaigns []Campaign) []Campaign {
	seen := make(map[Tag]struct{}, 3)
	selected := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c == nil {
			continue
		}
		tag := c.Tag()
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		selected = append(selected, c)
	}
	slices.SortStableFunc(selected, func(a, b Campaign) int {
		return cmp.Compare(a.Tag().Priority(), b.Tag().Priority())
	})
	return selected
}
