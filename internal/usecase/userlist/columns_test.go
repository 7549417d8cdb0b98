package userlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-admin/internal/domain/user"
)

func TestRowActions(t *testing.T) {
	tests := []struct {
		name     string
		rowID    string
		selected string
		enabled  bool
	}{
		{name: "selected row", rowID: "7", selected: "7", enabled: true},
		{name: "other row", rowID: "8", selected: "7", enabled: false},
		{name: "nothing selected", rowID: "7", selected: "", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := RowActions(tt.rowID, tt.selected)
			require.Len(t, actions, 1)
			assert.Equal(t, ActionDelete, actions[0].Name)
			assert.Equal(t, tt.enabled, actions[0].Enabled)
		})
	}
}

func TestColumns_Layout(t *testing.T) {
	fields := make([]string, len(Columns))
	for i, c := range Columns {
		fields[i] = c.Field
	}
	assert.Equal(t, []string{"id", "firstName", "lastName", "email", "jobTitle", "gender", "actions"}, fields)
}

func TestBuildGrid(t *testing.T) {
	st := State{
		Rows: []domain.Record{
			{ID: "1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", JobTitle: "Analyst", Gender: "Female"},
			{ID: "2", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", JobTitle: "Engineer", Gender: "Male"},
		},
		TotalCount: 2,
		SelectedID: "2",
		Pagination: domain.DefaultPageRequest(),
	}

	grid := BuildGrid(st)
	require.Len(t, grid.Rows, 2)

	first := grid.Rows[0]
	assert.False(t, first.Selected)
	assert.False(t, first.Actions[0].Enabled)
	require.Len(t, first.Cells, len(Columns)-1)
	assert.Equal(t, Cell{Field: "id", Value: "1"}, first.Cells[0])
	assert.Equal(t, Cell{Field: "email", Value: "ada@example.com"}, first.Cells[3])

	second := grid.Rows[1]
	assert.True(t, second.Selected)
	assert.True(t, second.Actions[0].Enabled)
}

func TestNewPager(t *testing.T) {
	tests := []struct {
		name     string
		page     domain.PageRequest
		total    int64
		rows     int
		expected Pager
	}{
		{
			name:     "all rows on one page",
			page:     domain.PageRequest{Page: 0, PageSize: 5},
			total:    3,
			rows:     3,
			expected: Pager{Page: 0, PageSize: 5, TotalCount: 3, TotalPages: 1, StartIndex: 1, EndIndex: 3, NextPage: 1},
		},
		{
			name:     "middle page",
			page:     domain.PageRequest{Page: 1, PageSize: 5},
			total:    12,
			rows:     5,
			expected: Pager{Page: 1, PageSize: 5, TotalCount: 12, TotalPages: 3, StartIndex: 6, EndIndex: 10, HasPrev: true, HasNext: true, PrevPage: 0, NextPage: 2},
		},
		{
			name:     "last partial page",
			page:     domain.PageRequest{Page: 1, PageSize: 10},
			total:    12,
			rows:     2,
			expected: Pager{Page: 1, PageSize: 10, TotalCount: 12, TotalPages: 2, StartIndex: 11, EndIndex: 12, HasPrev: true, PrevPage: 0, NextPage: 2},
		},
		{
			name:     "only row of the last page deleted",
			page:     domain.PageRequest{Page: 3, PageSize: 5},
			total:    15,
			rows:     0,
			expected: Pager{Page: 3, PageSize: 5, TotalCount: 15, TotalPages: 3, HasPrev: true, PrevPage: 2, NextPage: 4, PastEnd: true},
		},
		{
			name:     "empty",
			page:     domain.PageRequest{Page: 0, PageSize: 5},
			expected: Pager{Page: 0, PageSize: 5, NextPage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected.PageSizeOptions = domain.PageSizeOptions
			assert.Equal(t, tt.expected, NewPager(tt.page, tt.total, tt.rows))
		})
	}
}

func TestConfirmPrompt_Choose(t *testing.T) {
	var cancelled, confirmed int
	prompt := ConfirmPrompt{
		Open:      true,
		OnCancel:  func(context.Context) error { cancelled++; return nil },
		OnConfirm: func(context.Context) error { confirmed++; return nil },
	}
	ctx := context.Background()

	require.NoError(t, prompt.Choose(ctx, ChoiceCancel))
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 0, confirmed)

	require.NoError(t, prompt.Choose(ctx, ChoiceConfirm))
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 1, confirmed)

	assert.ErrorIs(t, prompt.Choose(ctx, Choice("maybe")), ErrUnknownChoice)

	prompt.Open = false
	assert.ErrorIs(t, prompt.Choose(ctx, ChoiceConfirm), ErrPromptClosed)
	assert.Equal(t, 1, confirmed)
}
