package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fragmede/cpphub/internal/render"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (a *App) listCourses(ctx context.Context, args []string) error {
	fset := a.flagSet("courses")
	refresh := fset.Bool("refresh", false, "ignore the cached catalog")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cat, err := a.catalog.LoadCatalog(ctx, a.courses, a.ttl, *refresh)
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}
	if cat.Stale {
		fmt.Fprintf(a.out, "Showing cached catalog (%v)\n", cat.FetchErr)
	}
	if cat.StoreErr != nil {
		fmt.Fprintf(a.out, "Could not cache catalog (%v)\n", cat.StoreErr)
	}
	if len(cat.Courses) == 0 {
		fmt.Fprintln(a.out, "No courses.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Level", "Duration", "Price").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, c := range cat.Courses {
		t.Row(strconv.FormatInt(c.ID, 10), c.Title, string(c.Level), c.Duration, render.Price(c.Price))
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}
