package userlist

import (
	domain "user-admin/internal/domain/user"
)

// ActionDelete is the per-row delete action.
const ActionDelete = "delete"

// Column describes one grid column. Flex is the relative width.
type Column struct {
	Field  string
	Header string
	Flex   float64
}

// Columns is the grid layout, in display order. The actions column has no
// record field; its cells come from RowActions.
var Columns = []Column{
	{Field: "id", Header: "ID", Flex: 0.1},
	{Field: domain.FieldFirstName, Header: "First Name", Flex: 0.2},
	{Field: domain.FieldLastName, Header: "Last Name", Flex: 0.2},
	{Field: domain.FieldEmail, Header: "Email", Flex: 0.3},
	{Field: domain.FieldJobTitle, Header: "Job Title", Flex: 0.2},
	{Field: domain.FieldGender, Header: "Gender", Flex: 0.1},
	{Field: "actions", Header: "Actions", Flex: 0.1},
}

// RowAction is a control rendered in the actions column.
type RowAction struct {
	Name    string
	Label   string
	Enabled bool
}

// RowActions returns the actions of row rowID. Delete is enabled only on the
// selected row.
func RowActions(rowID, selectedID string) []RowAction {
	return []RowAction{{
		Name:    ActionDelete,
		Label:   "Delete",
		Enabled: selectedID != "" && rowID == selectedID,
	}}
}

// Cell is one rendered value.
type Cell struct {
	Field string
	Value string
}

// Row is one rendered grid row.
type Row struct {
	ID       string
	Selected bool
	Cells    []Cell
	Actions  []RowAction
}

// Pager is the pagination footer of the grid.
type Pager struct {
	Page            int
	PageSize        int
	PageSizeOptions []int
	TotalCount      int64
	TotalPages      int64
	StartIndex      int64
	EndIndex        int64
	HasPrev         bool
	HasNext         bool
	PrevPage        int
	NextPage        int

	// PastEnd is set when the page lies beyond the last row, as after deleting
	// the only row of the last page. PrevPage then points at the last page.
	PastEnd bool
}

// Grid is everything the grid needs to render a State.
type Grid struct {
	Columns []Column
	Rows    []Row
	Pager   Pager
}

// BuildGrid maps st to its grid.
func BuildGrid(st State) Grid {
	rows := make([]Row, 0, len(st.Rows))
	for _, r := range st.Rows {
		row := Row{
			ID:       r.ID,
			Selected: r.ID == st.SelectedID,
			Actions:  RowActions(r.ID, st.SelectedID),
		}
		for _, col := range Columns {
			if col.Field == "actions" {
				continue
			}
			row.Cells = append(row.Cells, Cell{Field: col.Field, Value: r.Field(col.Field)})
		}
		rows = append(rows, row)
	}

	return Grid{
		Columns: Columns,
		Rows:    rows,
		Pager:   NewPager(st.Pagination, st.TotalCount, len(st.Rows)),
	}
}

// NewPager computes the footer for page p showing rowCount of total rows.
func NewPager(p domain.PageRequest, total int64, rowCount int) Pager {
	skip := int64(p.Skip())
	pager := Pager{
		Page:            p.Page,
		PageSize:        p.PageSize,
		PageSizeOptions: domain.PageSizeOptions,
		TotalCount:      total,
		TotalPages:      p.TotalPages(total),
		HasPrev:         p.Page > 0,
		HasNext:         int64(p.Page+1)*int64(p.PageSize) < total,
		PrevPage:        max(p.Page-1, 0),
		NextPage:        p.Page + 1,
	}
	if rowCount > 0 {
		pager.StartIndex = skip + 1
		pager.EndIndex = skip + int64(rowCount)
	} else if total > 0 && skip >= total {
		pager.PastEnd = true
		pager.HasPrev = true
		pager.PrevPage = int(pager.TotalPages - 1)
	}
	return pager
}
