package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"aozu-ops-hub/internal/domain"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// ParseRange turns a policy range label such as "30日前〜15日前" into the
// inclusive day bounds it covers.
func ParseRange(label string) (lo, hi int) {
	if strings.Contains(label, "当日") {
		return 0, 1
	}
	if strings.Contains(label, "前日") {
		return 1, 1
	}

	nums := digitsPattern.FindAllString(label, -1)
	switch {
	case len(nums) >= 2:
		return atoi(nums[1]), atoi(nums[0])
	case len(nums) == 1:
		n := atoi(nums[0])
		return n, n
	}
	return 0, 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// CalculatorService answers "what refund percentage do I enter" from the
// platform cancellation policies.
type CalculatorService struct {
	content ContentSource
}

func NewCalculatorService(content ContentSource) *CalculatorService {
	return &CalculatorService{content: content}
}

func (s *CalculatorService) Platforms() []string {
	policies := s.content.Snapshot().Cancellation
	out := make([]string, 0, len(policies))
	for p := range policies {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *CalculatorService) PolicyTable(platform string) (*domain.CancellationPolicy, error) {
	policy, ok := s.content.Snapshot().Cancellation[platform]
	if !ok {
		return nil, fmt.Errorf("%s: %w", platform, ErrPolicyNotFound)
	}
	return &policy, nil
}

// Calculate applies the first policy rule whose range covers daysBefore.
// When none does the guest pays everything.
func (s *CalculatorService) Calculate(platform string, daysBefore int) (*domain.RefundResult, error) {
	if daysBefore < 0 {
		return nil, ErrInvalidDays
	}
	policy, err := s.PolicyTable(platform)
	if err != nil {
		return nil, err
	}

	result := &domain.RefundResult{
		Platform:      platform,
		DaysBefore:    daysBefore,
		RefundPercent: 0,
		ChargePercent: 100,
	}
	for _, rule := range policy.Policy {
		lo, hi := ParseRange(rule.Range)
		if daysBefore >= lo && daysBefore <= hi {
			result.RefundPercent = rule.Refund
			result.ChargePercent = rule.Charge
			result.MatchedRange = rule.Range
			break
		}
	}
	return result, nil
}
