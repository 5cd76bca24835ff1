// Package parse extracts structured fault-code and event queries from
// loosely formatted operator text.
package parse

import (
	"regexp"
	"strings"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

var digitRuns = regexp.MustCompile(`\d+`)

// Code parses one comma-separated token into a fault-code query.
// Accepted shapes include "168-04", "168 04" and "28 168 04"; the last
// three digit runs win, so a leading module id is picked up as MID and
// anything before that is ignored. Fewer than two runs is unparsable.
func Code(raw string) domain.FaultCodeQuery {
	t := strings.ToUpper(raw)
	t = strings.NewReplacer("-", " ", ".", " ").Replace(t)

	nums := digitRuns.FindAllString(t, -1)

	switch {
	case len(nums) >= 3:
		return domain.FaultCodeQuery{
			MID: nums[len(nums)-3],
			CID: nums[len(nums)-2],
			FMI: nums[len(nums)-1],
		}
	case len(nums) == 2:
		return domain.FaultCodeQuery{CID: nums[0], FMI: nums[1]}
	default:
		return domain.FaultCodeQuery{}
	}
}
