package calendar

import (
	"fmt"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/us"
)

var regionHolidays = map[string][]*cal.Holiday{
	"de":    de.Holidays,
	"de-bw": de.HolidaysBW,
	"de-by": de.HolidaysBY,
	"us":    us.Holidays,
}

// NewRegionCalendar builds the public holiday calendar for a region code
// such as "de-bw". An empty code returns nil, meaning no public holidays
// beyond the holidays table.
func NewRegionCalendar(region string) (*cal.BusinessCalendar, error) {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return nil, nil
	}
	holidays, ok := regionHolidays[region]
	if !ok {
		return nil, fmt.Errorf("unsupported holiday region %q", region)
	}
	c := cal.NewBusinessCalendar()
	c.Name = region
	c.AddHoliday(holidays...)
	return c, nil
}
