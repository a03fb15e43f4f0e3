package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rostercore/internal/core"
	"rostercore/pkg/domain"
)

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive roster session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			session := &menuSession{
				cmd: cmd,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				svc: svc,
			}
			return session.run()
		},
	}
}

type menuSession struct {
	cmd *cobra.Command
	in  *bufio.Scanner
	out io.Writer
	svc *core.Service
}

func (m *menuSession) run() error {
	for {
		fmt.Fprint(m.out, `
===== Student Roster =====
1. Add student
2. Update student
3. View student
4. Search by name
5. Display all
6. Remove student
7. Count students
8. Library
9. Exit
Choose an option: `)
		choice, ok := m.readLine()
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			m.addStudent()
		case "2":
			m.updateStudent()
		case "3":
			m.viewStudent()
		case "4":
			m.searchStudents()
		case "5":
			m.displayAll()
		case "6":
			m.removeStudent()
		case "7":
			fmt.Fprintf(m.out, "Total students: %d\n", m.svc.CountStudents())
		case "8":
			m.libraryMenu()
		case "9":
			fmt.Fprintln(m.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option, try again.")
		}
	}
}

func (m *menuSession) libraryMenu() {
	for {
		fmt.Fprint(m.out, `
===== Library =====
1. Stock books
2. Borrow books
3. Return books
4. List inventory
5. Back
Choose an option: `)
		choice, ok := m.readLine()
		if !ok {
			return
		}
		switch strings.TrimSpace(choice) {
		case "1":
			m.stockBooks()
		case "2":
			m.borrowBooks()
		case "3":
			m.returnBooks()
		case "4":
			m.listBooks()
		case "5":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option, try again.")
		}
	}
}

func (m *menuSession) addStudent() {
	id := m.prompt("Student ID: ")
	name := m.prompt("Name: ")
	age, ok := m.promptInt("Age: ")
	if !ok {
		return
	}
	grade := m.prompt("Grade: ")
	student, _, err := m.svc.RegisterStudent(m.cmd.Context(), domain.Student{ID: id, Name: name, Age: age, Grade: grade})
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Added %s (%s)\n", student.Name, student.ID)
}

func (m *menuSession) updateStudent() {
	id := m.prompt("Student ID: ")
	if _, ok := m.svc.GetStudent(id); !ok {
		fmt.Fprintf(m.out, "No student with ID %s\n", id)
		return
	}
	var patch domain.StudentPatch
	if name := m.prompt("New name (blank to keep): "); name != "" {
		patch.Name = &name
	}
	if raw := m.prompt("New age (blank to keep): "); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(m.out, "Invalid age, update cancelled.")
			return
		}
		patch.Age = &age
	}
	if grade := m.prompt("New grade (blank to keep): "); grade != "" {
		patch.Grade = &grade
	}
	student, _, err := m.svc.UpdateStudent(m.cmd.Context(), id, patch)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Updated %s\n", student.ID)
}

func (m *menuSession) viewStudent() {
	id := m.prompt("Student ID: ")
	student, ok := m.svc.GetStudent(id)
	if !ok {
		fmt.Fprintf(m.out, "No student with ID %s\n", id)
		return
	}
	m.printStudent(student)
}

func (m *menuSession) searchStudents() {
	query := m.prompt("Name contains: ")
	matches := m.svc.SearchStudentsByName(query)
	if len(matches) == 0 {
		fmt.Fprintln(m.out, "No matching students.")
		return
	}
	for _, st := range matches {
		m.printStudent(st)
	}
}

func (m *menuSession) displayAll() {
	students := m.svc.ListStudents()
	if len(students) == 0 {
		fmt.Fprintln(m.out, "Roster is empty.")
		return
	}
	for _, st := range students {
		m.printStudent(st)
	}
}

func (m *menuSession) removeStudent() {
	id := m.prompt("Student ID: ")
	student, ok := m.svc.GetStudent(id)
	if !ok {
		fmt.Fprintf(m.out, "No student with ID %s\n", id)
		return
	}
	confirm := m.prompt(fmt.Sprintf("Remove %s (%s)? [y/N]: ", student.Name, student.ID))
	if !strings.EqualFold(confirm, "y") {
		fmt.Fprintln(m.out, "Cancelled.")
		return
	}
	if _, err := m.svc.RemoveStudent(m.cmd.Context(), id); err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Removed %s. %d students remain.\n", student.ID, m.svc.CountStudents())
}

func (m *menuSession) stockBooks() {
	title := m.prompt("Title: ")
	author := m.prompt("Author (blank if already stocked): ")
	quantity, ok := m.promptInt("Copies to add: ")
	if !ok {
		return
	}
	book, _, err := m.svc.StockBooks(m.cmd.Context(), title, author, quantity)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Stocked %q, %d copies on hand.\n", book.Title, book.Quantity)
}

func (m *menuSession) borrowBooks() {
	title := m.prompt("Title: ")
	quantity, ok := m.promptInt("Copies to borrow: ")
	if !ok {
		return
	}
	book, _, err := m.svc.BorrowBooks(m.cmd.Context(), title, quantity)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Borrowed %d of %q, %d copies remain.\n", quantity, book.Title, book.Quantity)
}

func (m *menuSession) returnBooks() {
	title := m.prompt("Title: ")
	author := m.prompt("Author (blank if already stocked): ")
	quantity, ok := m.promptInt("Copies to return: ")
	if !ok {
		return
	}
	book, _, err := m.svc.ReturnBooks(m.cmd.Context(), title, author, quantity)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Returned %d of %q, %d copies on hand.\n", quantity, book.Title, book.Quantity)
}

func (m *menuSession) listBooks() {
	books := m.svc.ListBooks()
	if len(books) == 0 {
		fmt.Fprintln(m.out, "Inventory is empty.")
		return
	}
	for _, b := range books {
		fmt.Fprintf(m.out, "%-32s %-24s %d copies\n", b.Title, b.Author, b.Quantity)
	}
}

func (m *menuSession) printStudent(st domain.Student) {
	fmt.Fprintf(m.out, "%-8s %-24s age %-3d %s\n", st.ID, st.Name, st.Age, st.Grade)
}

func (m *menuSession) prompt(label string) string {
	fmt.Fprint(m.out, label)
	line, _ := m.readLine()
	return strings.TrimSpace(line)
}

func (m *menuSession) promptInt(label string) (int, bool) {
	raw := m.prompt(label)
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid number.")
		return 0, false
	}
	return v, true
}

func (m *menuSession) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}
