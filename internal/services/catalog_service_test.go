package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
)

func TestCourseService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.deps())
	ctx := context.Background()

	f.blobs.On("Upload", mock.Anything, "cover.png", mock.Anything).Return("http://cdn/cover.png", nil).Once()

	course, err := svc.Create(ctx, &CourseRequest{
		Subject: " Data Science ",
		Level:   "Advanced",
		Mentors: []models.Mentor{{Name: "Dr. Rao"}},
	}, &FileUpload{Filename: "cover.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "Data Science", course.Subject)
	assert.Equal(t, models.LevelAdvanced, course.Level)
	require.NotNil(t, course.Thumbnail)
	assert.Equal(t, "http://cdn/cover.png", *course.Thumbnail)
	assert.Equal(t, "Dr. Rao", course.PrimaryMentor())

	_, err = svc.Create(ctx, &CourseRequest{Subject: "Data Science"}, nil)
	assert.ErrorIs(t, err, ErrCourseExists)

	_, err = svc.Create(ctx, &CourseRequest{Subject: "Other", Level: "Expert"}, nil)
	assert.True(t, IsValidation(err))
}

func TestCourseService_ThumbnailFailureStillCreates(t *testing.T) {
	f := newFixture(t)
	svc := NewCourseService(f.deps())

	f.blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket gone"))

	course, err := svc.Create(context.Background(), &CourseRequest{Subject: "SQL"},
		&FileUpload{Filename: "cover.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Nil(t, course.Thumbnail)
	assert.Equal(t, models.LevelBeginner, course.Level)
}

func TestCourseService_GetAndDelete(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "SQL")
	svc := NewCourseService(f.deps())
	ctx := context.Background()

	got, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "SQL", got.Subject)

	require.NoError(t, svc.Delete(ctx, course.ID))
	_, err = svc.Get(ctx, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, course.ID), ErrCourseNotFound)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "SQL")
	svc := NewEnrollmentService(f.deps())
	ctx := context.Background()

	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notifier.Message) bool {
		return msg.To == student.Email && msg.Subject == "Enrollment Confirmed: SQL"
	})).Return(nil).Once()

	enrollment, err := svc.Enroll(ctx, &EnrollRequest{CourseID: course.ID, Phone: "99999"}, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Len(t, f.publisher.EventsOfType(events.EventEnrollmentCreated), 1)

	_, err = svc.Enroll(ctx, &EnrollRequest{CourseID: course.ID}, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = svc.Enroll(ctx, &EnrollRequest{CourseID: "missing"}, student.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	mine, err := svc.MyEnrollments(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "SQL", mine[0].Course.Subject)
	assert.Nil(t, mine[0].Student)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, student.ID, all[0].Student.ID)

	f.notifier.AssertExpectations(t)
}

func TestEnrollmentService_ConfirmationFailureKeepsEnrollment(t *testing.T) {
	f := newFixture(t)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "SQL")
	svc := NewEnrollmentService(f.deps())

	f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	enrollment, err := svc.Enroll(context.Background(), &EnrollRequest{CourseID: course.ID}, student.ID)
	require.NoError(t, err)

	stored, err := f.store.Enrollment().GetByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, stored.StudentID)
}

func TestEnrollmentService_Housekeeping(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "SQL")
	other := f.course(t, "Python")
	asha := f.account(t, "asha", models.RoleStudent)
	f.enroll(t, asha, course)
	f.enroll(t, asha, other)
	svc := NewEnrollmentService(f.deps())
	ctx := context.Background()

	mine, err := svc.MyEnrollments(ctx, asha.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	require.NoError(t, svc.Delete(ctx, mine[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, mine[0].ID), ErrEnrollmentNotFound)

	n, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFacultyService_AssignCourse(t *testing.T) {
	f := newFixture(t)
	faculty := f.account(t, "dev", models.RoleFaculty)
	student := f.account(t, "asha", models.RoleStudent)
	course := f.course(t, "SQL")
	svc := NewFacultyService(f.deps())
	ctx := context.Background()

	assignment, err := svc.AssignCourse(ctx, &AssignCourseRequest{FacultyID: faculty.ID, CourseID: course.ID})
	require.NoError(t, err)
	assert.Equal(t, "SQL", assignment.CourseSubject)

	_, err = svc.AssignCourse(ctx, &AssignCourseRequest{FacultyID: faculty.ID, CourseID: course.ID})
	assert.ErrorIs(t, err, ErrAlreadyAssigned)

	_, err = svc.AssignCourse(ctx, &AssignCourseRequest{FacultyID: student.ID, CourseID: course.ID})
	assert.True(t, IsValidation(err))

	_, err = svc.AssignCourse(ctx, &AssignCourseRequest{FacultyID: faculty.ID, CourseID: "missing"})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	courses, err := svc.AssignedCourses(ctx, faculty.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].CourseID)
}

func TestReviewService_AveragesAndRecompute(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "SQL")
	svc := NewReviewService(f.deps())
	ctx := context.Background()

	var ids []string
	for i, rating := range []int{5, 4, 4} {
		user := f.account(t, string(rune('a'+i))+"-reviewer", models.RoleStudent)
		review, err := svc.Create(ctx, course.ID, user.ID, &ReviewRequest{Rating: rating})
		require.NoError(t, err)
		ids = append(ids, review.ID)

		if i == 0 {
			_, err = svc.Create(ctx, course.ID, user.ID, &ReviewRequest{Rating: 1})
			assert.ErrorIs(t, err, ErrAlreadyReviewed)
		}
	}

	listed, err := svc.ListForCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, listed.TotalReviews)
	assert.Equal(t, 4.3, listed.AverageRating)

	stored, err := f.store.Course().GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stored.AverageRating)
	assert.Equal(t, 3, stored.TotalReviews)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	averages, err := svc.AllAverages(ctx)
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.Equal(t, CourseRating{CourseID: course.ID, Subject: "SQL", AverageRating: 4, TotalReviews: 2}, averages[0])

	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), ErrReviewNotFound)
}

func TestReviewService_Validation(t *testing.T) {
	f := newFixture(t)
	course := f.course(t, "SQL")
	user := f.account(t, "asha", models.RoleStudent)
	svc := NewReviewService(f.deps())
	ctx := context.Background()

	_, err := svc.Create(ctx, course.ID, user.ID, &ReviewRequest{Rating: 6})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(ctx, "missing", user.ID, &ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	empty, err := svc.ListForCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.AverageRating)
	assert.Zero(t, empty.TotalReviews)
}
