package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

type courseStore struct{ s *Store }

func (c courseStore) Create(ctx context.Context, course *models.Course) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.courses[course.ID]; ok {
		return repositories.ErrDuplicate
	}
	for _, existing := range c.s.courses {
		if existing.Subject == course.Subject {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now()
	course.CreatedAt, course.UpdatedAt = now, now
	c.s.courses[course.ID] = *course
	c.s.track(course.ID)
	return nil
}

func (c courseStore) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	course, ok := c.s.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &course, nil
}

func (c courseStore) GetByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if course, ok := c.s.courses[id]; ok {
			found := course
			out = append(out, &found)
		}
	}
	return out, nil
}

func (c courseStore) List(ctx context.Context) ([]*models.Course, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make([]*models.Course, 0, len(c.s.courses))
	for _, course := range c.s.courses {
		found := course
		out = append(out, &found)
	}
	slices.SortFunc(out, func(a, b *models.Course) int {
		return cmp.Compare(c.s.order[b.ID], c.s.order[a.ID])
	})
	return out, nil
}

func (c courseStore) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(c.s.courses, id)
	return nil
}

func (c courseStore) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	course, ok := c.s.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	course.AverageRating = average
	course.TotalReviews = total
	course.UpdatedAt = time.Now()
	c.s.courses[id] = course
	return nil
}

type enrollmentStore struct{ s *Store }

func (e enrollmentStore) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	for _, existing := range e.s.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.CourseID == enrollment.CourseID {
			return repositories.ErrDuplicate
		}
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	e.s.enrollments[enrollment.ID] = *enrollment
	e.s.track(enrollment.ID)
	return nil
}

func (e enrollmentStore) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	enrollment, ok := e.s.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &enrollment, nil
}

func (e enrollmentStore) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return e.list(ctx, func(en models.Enrollment) bool { return en.StudentID == studentID })
}

func (e enrollmentStore) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return e.list(ctx, func(en models.Enrollment) bool { return en.CourseID == courseID })
}

func (e enrollmentStore) List(ctx context.Context) ([]*models.Enrollment, error) {
	return e.list(ctx, func(models.Enrollment) bool { return true })
}

func (e enrollmentStore) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if _, ok := e.s.enrollments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(e.s.enrollments, id)
	return nil
}

func (e enrollmentStore) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	n := int64(len(e.s.enrollments))
	e.s.enrollments = make(map[string]models.Enrollment)
	return n, nil
}

// list returns matching enrollments newest first.
func (e enrollmentStore) list(ctx context.Context, keep func(models.Enrollment) bool) ([]*models.Enrollment, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	out := make([]*models.Enrollment, 0)
	for _, enrollment := range e.s.enrollments {
		if keep(enrollment) {
			found := enrollment
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, func(a, b *models.Enrollment) int {
		return cmp.Compare(e.s.order[b.ID], e.s.order[a.ID])
	})
	return out, nil
}

type facultyCourseStore struct{ s *Store }

func (f facultyCourseStore) Create(ctx context.Context, assignment *models.FacultyCourse) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, existing := range f.s.facultyCourses {
		if existing.FacultyID == assignment.FacultyID && existing.CourseID == assignment.CourseID {
			return repositories.ErrDuplicate
		}
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now()
	}
	f.s.facultyCourses[assignment.ID] = *assignment
	f.s.track(assignment.ID)
	return nil
}

func (f facultyCourseStore) ListByFaculty(ctx context.Context, facultyID string) ([]*models.FacultyCourse, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	out := make([]*models.FacultyCourse, 0)
	for _, assignment := range f.s.facultyCourses {
		if assignment.FacultyID == facultyID {
			found := assignment
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, func(a, b *models.FacultyCourse) int {
		return cmp.Compare(f.s.order[a.ID], f.s.order[b.ID])
	})
	return out, nil
}

func (f facultyCourseStore) Exists(ctx context.Context, facultyID, courseID string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	for _, assignment := range f.s.facultyCourses {
		if assignment.FacultyID == facultyID && assignment.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

type reviewStore struct{ s *Store }

func (r reviewStore) Create(ctx context.Context, review *models.Review) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reviews {
		if existing.UserID == review.UserID && existing.CourseID == review.CourseID {
			return repositories.ErrDuplicate
		}
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	r.s.reviews[review.ID] = *review
	r.s.track(review.ID)
	return nil
}

func (r reviewStore) GetByID(ctx context.Context, id string) (*models.Review, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	review, ok := r.s.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &review, nil
}

func (r reviewStore) ListByCourse(ctx context.Context, courseID string) ([]*models.Review, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Review, 0)
	for _, review := range r.s.reviews {
		if review.CourseID == courseID {
			found := review
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, func(a, b *models.Review) int {
		return cmp.Compare(r.s.order[b.ID], r.s.order[a.ID])
	})
	return out, nil
}

func (r reviewStore) Delete(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r reviewStore) Stats(ctx context.Context, courseID string) (float64, int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sum, count := 0, 0
	for _, review := range r.s.reviews {
		if review.CourseID == courseID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type sequenceStore struct{ s *Store }

func (q sequenceStore) Next(ctx context.Context, name string, seed func(ctx context.Context) (int64, error)) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	q.s.mu.RLock()
	_, seeded := q.s.sequences[name]
	q.s.mu.RUnlock()

	var start int64
	if !seeded {
		// seed reads other stores, so it must run without the lock held
		v, err := seed(ctx)
		if err != nil {
			return 0, err
		}
		start = v
	}

	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if _, ok := q.s.sequences[name]; !ok {
		q.s.sequences[name] = start
	}
	q.s.sequences[name]++
	return q.s.sequences[name], nil
}
