// Package gradestore persists synced grades and serves the pre-computed
// summary sheet the UI renders. Works against sqlite (offline/dev) and
// Postgres (production) through database/sql.
package gradestore

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"
)

// ErrCourseNotFound is returned by Summary when the Gradescope course id has
// never been synced into the database.
var ErrCourseNotFound = errors.New("course not found")

type Store struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

type Course struct {
	ID                 string
	GradescopeCourseID string
	Name               string
	Semester           string
	Year               int
}

type Assignment struct {
	ID        string
	CourseID  string
	Title     string
	Category  string
	MaxPoints float64
}

type Student struct {
	ID        string
	LegalName string
	Email     string
}

type Submission struct {
	AssignmentID string
	StudentID    string
	Score        *float64
	MaxPoints    *float64
}

func (s *Store) UpsertCourse(ctx context.Context, c Course) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses (id,gradescope_course_id,name,semester,year,last_synced_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET gradescope_course_id=EXCLUDED.gradescope_course_id,
			name=EXCLUDED.name, semester=EXCLUDED.semester, year=EXCLUDED.year,
			last_synced_at=EXCLUDED.last_synced_at`,
		c.ID, c.GradescopeCourseID, c.Name, c.Semester, c.Year, time.Now().Unix())
	return err
}

func (s *Store) UpsertAssignment(ctx context.Context, a Assignment) error {
	if a.Category == "" {
		a.Category = CategoryFor(a.Title)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO assignments (id,course_id,title,category,max_points)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET course_id=EXCLUDED.course_id, title=EXCLUDED.title,
			category=EXCLUDED.category, max_points=EXCLUDED.max_points`,
		a.ID, a.CourseID, a.Title, a.Category, a.MaxPoints)
	return err
}

func (s *Store) UpsertStudent(ctx context.Context, st Student) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO students (id,legal_name,email)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET legal_name=EXCLUDED.legal_name, email=EXCLUDED.email`,
		st.ID, st.LegalName, st.Email)
	return err
}

func (s *Store) UpsertSubmission(ctx context.Context, sub Submission) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO submissions (assignment_id,student_id,score,max_points,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (assignment_id,student_id) DO UPDATE SET score=EXCLUDED.score,
			max_points=EXCLUDED.max_points, updated_at=EXCLUDED.updated_at`,
		sub.AssignmentID, sub.StudentID, sub.Score, sub.MaxPoints, time.Now().Unix())
	return err
}

// StudentScores is one summary row. Scores carries an entry for every
// assignment; missing submissions serialize as null.
type StudentScores struct {
	LegalName string              `json:"legal_name"`
	Email     string              `json:"email"`
	Scores    map[string]*float64 `json:"scores"`
}

type Summary struct {
	Assignments []string           `json:"assignments"`
	Students    []StudentScores    `json:"students"`
	Categories  map[string]string  `json:"categories"`
	MaxPoints   map[string]float64 `json:"max_points"`
}

// EmptySummary is what an unsynced course summarizes to.
func EmptySummary() Summary {
	return Summary{
		Assignments: []string{},
		Students:    []StudentScores{},
		Categories:  map[string]string{},
		MaxPoints:   map[string]float64{},
	}
}

// Summary assembles the summary sheet for a Gradescope course id:
// assignments ordered by category then embedded number, students ordered by
// name, one score cell per (student, assignment) pair.
func (s *Store) Summary(ctx context.Context, gradescopeCourseID string) (Summary, error) {
	var courseID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM courses WHERE gradescope_course_id=$1`, gradescopeCourseID).Scan(&courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrCourseNotFound
	}
	if err != nil {
		return Summary{}, err
	}

	assignments, err := s.courseAssignments(ctx, courseID)
	if err != nil {
		return Summary{}, err
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		pi, pj := categoryPriority(assignments[i].Title), categoryPriority(assignments[j].Title)
		if pi != pj {
			return pi < pj
		}
		ni, nj := extractNumber(assignments[i].Title), extractNumber(assignments[j].Title)
		if ni != nj {
			return ni < nj
		}
		return assignments[i].Title < assignments[j].Title
	})

	out := EmptySummary()
	byID := make(map[string]string, len(assignments)) // assignment id -> title
	for _, a := range assignments {
		out.Assignments = append(out.Assignments, a.Title)
		byID[a.ID] = a.Title
		cat := a.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		out.Categories[a.Title] = cat
		out.MaxPoints[a.Title] = a.MaxPoints
	}

	scores, maxSeen, err := s.courseScores(ctx, courseID)
	if err != nil {
		return Summary{}, err
	}
	// An assignment synced without a point value inherits the max observed
	// on its submissions.
	for id, mp := range maxSeen {
		title := byID[id]
		if title != "" && out.MaxPoints[title] == 0 {
			out.MaxPoints[title] = mp
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,legal_name,email FROM students ORDER BY legal_name, email`)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.LegalName, &st.Email); err != nil {
			return Summary{}, err
		}
		row := StudentScores{
			LegalName: st.LegalName,
			Email:     st.Email,
			Scores:    make(map[string]*float64, len(assignments)),
		}
		for _, a := range assignments {
			row.Scores[a.Title] = scores[scoreKey{a.ID, st.ID}]
		}
		out.Students = append(out.Students, row)
	}
	return out, rows.Err()
}

func (s *Store) courseAssignments(ctx context.Context, courseID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,category,max_points FROM assignments WHERE course_id=$1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assignment
	for rows.Next() {
		a := Assignment{CourseID: courseID}
		if err := rows.Scan(&a.ID, &a.Title, &a.Category, &a.MaxPoints); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scoreKey struct{ assignmentID, studentID string }

func (s *Store) courseScores(ctx context.Context, courseID string) (map[scoreKey]*float64, map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sub.assignment_id, sub.student_id, sub.score, sub.max_points
		FROM submissions sub
		JOIN assignments a ON a.id = sub.assignment_id
		WHERE a.course_id=$1`, courseID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	scores := map[scoreKey]*float64{}
	maxSeen := map[string]float64{}
	for rows.Next() {
		var aid, sid string
		var score, maxPts sql.NullFloat64
		if err := rows.Scan(&aid, &sid, &score, &maxPts); err != nil {
			return nil, nil, err
		}
		if score.Valid {
			v := score.Float64
			scores[scoreKey{aid, sid}] = &v
		}
		if maxPts.Valid && maxPts.Float64 > maxSeen[aid] {
			maxSeen[aid] = maxPts.Float64
		}
	}
	return scores, maxSeen, rows.Err()
}
