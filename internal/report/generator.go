package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/averin/shiftbot/internal/store"
	"github.com/averin/shiftbot/internal/timecalc"
)

// Generator renders the aggregated work-period report.
type Generator struct {
	repo store.Repository
}

// NewGenerator creates a report generator backed by repo.
func NewGenerator(repo store.Repository) *Generator {
	return &Generator{repo: repo}
}

// Generate builds the textual report for a user over the inclusive
// [startDate, endDate] range. Days missing either punch (or with equal
// punches) are skipped from the breakdown and totals; an all-incomplete
// range and an empty range produce distinct messages.
func (g *Generator) Generate(ctx context.Context, userID int64, startDate, endDate string) (string, error) {
	days, tasks, err := g.repo.WorkPeriod(ctx, userID, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("load work period: %w", err)
	}

	startFmt := timecalc.FormatDate(startDate)
	endFmt := timecalc.FormatDate(endDate)

	if len(days) == 0 {
		return fmt.Sprintf("📊 За период с %s по %s данные не найдены.", startFmt, endFmt), nil
	}

	// Tasks arrive ordered by date then creation time; grouping keeps
	// that order within each date.
	tasksByDate := make(map[string][]string)
	for _, task := range tasks {
		tasksByDate[task.Date] = append(tasksByDate[task.Date], task.Description)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 ОТЧЕТ за период: %s - %s\n", startFmt, endFmt)

	var totalActual, totalAdjusted float64
	daysWithData := 0

	for _, day := range days {
		if !day.Complete() {
			continue
		}

		actual, adjusted := timecalc.WorkHours(day.StartTime, day.EndTime)
		totalActual += actual
		totalAdjusted += adjusted
		daysWithData++

		fmt.Fprintf(&b, "\n📅 %s\n", timecalc.FormatDate(day.Date))
		fmt.Fprintf(&b, "🕐 Время: %s - %s\n", day.StartTime, day.EndTime)
		fmt.Fprintf(&b, "⏱ Фактически: %.1f ч\n", actual)
		fmt.Fprintf(&b, "🍽 С учетом обеда: %.1f ч\n", adjusted)

		if descriptions := tasksByDate[day.Date]; len(descriptions) > 0 {
			b.WriteString("✅ Выполненные действия:\n")
			for i, desc := range descriptions {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, desc)
			}
		} else {
			b.WriteString("❌ Действия не добавлены\n")
		}
	}

	if daysWithData == 0 {
		return fmt.Sprintf("📊 За период с %s по %s нет полных данных о рабочих днях.", startFmt, endFmt), nil
	}

	fmt.Fprintf(&b, "\n📈 ИТОГО за %d дней:\n", daysWithData)
	fmt.Fprintf(&b, "⏱ Фактически: %.1f часов\n", totalActual)
	fmt.Fprintf(&b, "🍽 С учетом обеда: %.1f часов", totalAdjusted)

	return b.String(), nil
}
