package application

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/deadlines/internal/calendar"
	"github.com/zjrosen/deadlines/internal/tasks/domain"
)

func TestService_Add(t *testing.T) {
	env := newTestEnv(t)

	deadline := instant(2024, time.May, 17, 17, 0)
	task, err := env.service.Add(AddRequest{
		Name:        "Write report",
		Description: "quarterly",
		Deadline:    deadline,
		Tags:        []string{"Work"},
	})
	require.NoError(t, err)
	require.Equal(t, "task-0001", task.GUID())
	require.Equal(t, int64(1), task.ID())
	require.True(t, task.CreatedAt().Equal(testNow))

	stored, err := env.repo.FindByGUID("task-0001")
	require.NoError(t, err)
	require.Equal(t, []string{"work"}, stored.Tags())
	require.True(t, stored.Deadline().Equal(deadline))
}

func TestService_Add_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Add(AddRequest{Name: " ", Deadline: testNow})
	var invalid *domain.InvalidTaskError
	require.True(t, errors.As(err, &invalid))
	require.Empty(t, env.repo.tasks, "nothing is saved")

	_, err = env.service.Add(AddRequest{
		Name:     "inverted",
		Start:    calendar.NextDay(testNow),
		Deadline: testNow,
	})
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "start", invalid.Field)
}

func TestService_Add_RepositoryError(t *testing.T) {
	env := newTestEnv(t)
	env.repo.err = errors.New("disk full")

	_, err := env.service.Add(AddRequest{Name: "x", Deadline: testNow})
	require.ErrorContains(t, err, "disk full")
}

func TestNewService_DefaultsToSystemClockAndUUIDs(t *testing.T) {
	s := NewService(newMemRepository(), nil)
	require.IsType(t, calendar.SystemClock{}, s.Clock())

	task, err := s.Add(AddRequest{Name: "x", Deadline: calendar.SystemClock{}.Now()})
	require.NoError(t, err)
	require.Len(t, task.GUID(), 36)
}

func TestService_ListDue(t *testing.T) {
	env := newTestEnv(t)
	var none calendar.Instant

	env.add(t, "yesterday", instant(2024, time.May, 14, 9, 0), none)
	env.add(t, "this morning", instant(2024, time.May, 15, 9, 0), none)
	env.add(t, "tonight", instant(2024, time.May, 15, 21, 0), none, "home")
	env.add(t, "tomorrow", instant(2024, time.May, 16, 9, 0), none, "work")
	env.add(t, "sunday", instant(2024, time.May, 19, 23, 0), none)
	env.add(t, "next tuesday", instant(2024, time.May, 21, 9, 0), none, "work")
	env.add(t, "june", instant(2024, time.June, 3, 9, 0), none)
	done := env.add(t, "done today", instant(2024, time.May, 15, 20, 0), none)
	_, err := env.service.Complete(done.GUID())
	require.NoError(t, err)

	tests := []struct {
		window domain.Window
		tag    string
		want   []string
	}{
		{domain.WindowToday, "", []string{"this morning", "tonight"}},
		{domain.WindowTomorrow, "", []string{"tomorrow"}},
		{domain.WindowThisWeek, "", []string{"yesterday", "this morning", "tonight", "tomorrow", "sunday"}},
		{domain.WindowNextWeek, "", []string{"next tuesday"}},
		{domain.WindowOverdue, "", []string{"yesterday", "this morning"}},
		{domain.WindowAll, "", []string{"yesterday", "this morning", "done today", "tonight", "tomorrow", "sunday", "next tuesday", "june"}},
		{domain.WindowThisWeek, "work", []string{"tomorrow"}},
		{domain.WindowAll, "WORK", []string{"tomorrow", "next tuesday"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.window)+"/"+tt.tag, func(t *testing.T) {
			got, err := env.service.ListDue(tt.window, tt.tag)
			require.NoError(t, err)
			require.Equal(t, tt.want, taskNames(got))
		})
	}
}

func TestService_ListActive(t *testing.T) {
	env := newTestEnv(t)

	week := calendar.WeekOf(testNow)
	env.add(t, "spans the week", instant(2024, time.May, 30, 0, 0), instant(2024, time.May, 1, 0, 0))
	env.add(t, "due friday", instant(2024, time.May, 17, 17, 0), calendar.Instant{})
	env.add(t, "last week", instant(2024, time.May, 10, 17, 0), instant(2024, time.May, 6, 9, 0))
	env.add(t, "starts sunday night", instant(2024, time.May, 22, 0, 0), week.End)

	got, err := env.service.ListActive(week)
	require.NoError(t, err)
	require.Equal(t, []string{"due friday", "starts sunday night", "spans the week"}, taskNames(got))

	_, err = env.service.ListActive(calendar.Interval{Begin: week.End, End: week.Begin})
	require.ErrorIs(t, err, calendar.ErrInvertedInterval)
}

func TestService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		env.add(t, "task", testNow, calendar.Instant{})
	}

	task, err := env.service.Resolve("task-0002")
	require.NoError(t, err)
	require.Equal(t, "task-0002", task.GUID())

	task, err = env.service.Resolve("task-0003")
	require.NoError(t, err, "a full GUID never counts as ambiguous")
	require.Equal(t, "task-0003", task.GUID())

	_, err = env.service.Resolve("task-000")
	var ambiguous *domain.AmbiguousTaskIDError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, 3, ambiguous.Matches)

	_, err = env.service.Resolve("nope")
	var notFound *domain.TaskNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "nope", notFound.GUID)

	env.repo.err = errors.New("boom")
	_, err = env.service.Resolve("task-0001")
	require.ErrorContains(t, err, "boom")
}

func TestService_ResolveByUniquePrefix(t *testing.T) {
	repo := newMemRepository()
	guids := []string{"0f8fad5b-d9cb", "7c9e6679-7425"}
	i := 0
	s := NewService(repo, calendar.FixedClock{At: testNow}, WithGUIDGenerator(func() string {
		g := guids[i]
		i++
		return g
	}))
	for range guids {
		_, err := s.Add(AddRequest{Name: "x", Deadline: testNow})
		require.NoError(t, err)
	}

	task, err := s.Resolve("7c9e")
	require.NoError(t, err)
	require.Equal(t, "7c9e6679-7425", task.GUID())
}

func TestService_Postpone(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "task", instant(2024, time.May, 17, 17, 0), instant(2024, time.May, 16, 9, 0))

	got, err := env.service.Postpone(task.GUID(), 3)
	require.NoError(t, err)
	require.Equal(t, "2024-05-20", got.Deadline().FormatDate())
	require.Equal(t, "2024-05-19", got.Start().FormatDate())

	stored, err := env.repo.FindByGUID(task.GUID())
	require.NoError(t, err)
	require.True(t, stored.Deadline().Equal(got.Deadline()), "postponed deadline is persisted")

	_, err = env.service.Postpone(task.GUID(), 0)
	var invalid *domain.InvalidTaskError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "days", invalid.Field)
}

func TestService_Reschedule(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "task", instant(2024, time.May, 17, 17, 0), instant(2024, time.May, 16, 9, 0))

	deadline := instant(2024, time.May, 24, 12, 0)
	got, err := env.service.Reschedule(task.GUID(), calendar.Instant{}, deadline)
	require.NoError(t, err)
	require.False(t, got.HasStart())
	require.True(t, got.Deadline().Equal(deadline))

	_, err = env.service.Reschedule(task.GUID(), calendar.NextDay(deadline), deadline)
	require.Error(t, err)

	stored, err := env.repo.FindByGUID(task.GUID())
	require.NoError(t, err)
	require.False(t, stored.HasStart(), "failed reschedule is not persisted")
}

func TestService_Edit(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "draft", instant(2024, time.May, 17, 17, 0), calendar.Instant{}, "old")

	name, description := "  final report ", "for the board"
	tags := []string{"Work", "board"}
	got, err := env.service.Edit(task.GUID(), EditRequest{Name: &name, Description: &description, Tags: &tags})
	require.NoError(t, err)
	require.Equal(t, "final report", got.Name())

	stored, err := env.repo.FindByGUID(task.GUID())
	require.NoError(t, err)
	require.Equal(t, "final report", stored.Name())
	require.Equal(t, "for the board", stored.Description())
	require.Equal(t, []string{"work", "board"}, stored.Tags())
	require.True(t, instant(2024, time.May, 17, 17, 0).Equal(stored.Deadline()))

	none := []string{}
	_, err = env.service.Edit(task.GUID(), EditRequest{Tags: &none})
	require.NoError(t, err)
	stored, err = env.repo.FindByGUID(task.GUID())
	require.NoError(t, err)
	require.Empty(t, stored.Tags())
}

func TestService_Edit_Invalid(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "draft", instant(2024, time.May, 17, 17, 0), calendar.Instant{})

	var invalid *domain.InvalidTaskError
	_, err := env.service.Edit(task.GUID(), EditRequest{})
	require.ErrorAs(t, err, &invalid)

	blank, description := "   ", "ignored"
	_, err = env.service.Edit(task.GUID(), EditRequest{Name: &blank, Description: &description})
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "name", invalid.Field)

	stored, err := env.repo.FindByGUID(task.GUID())
	require.NoError(t, err)
	require.Equal(t, "draft", stored.Name())
	require.Empty(t, stored.Description(), "nothing is saved when a field is invalid")

	_, err = env.service.Edit("missing", EditRequest{Name: &description})
	var notFound *domain.TaskNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestService_CompleteAndReopen(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "task", testNow, calendar.Instant{})

	got, err := env.service.Complete(task.GUID())
	require.NoError(t, err)
	require.True(t, got.Done())

	got, err = env.service.Reopen(task.GUID())
	require.NoError(t, err)
	require.False(t, got.Done())
}

func TestService_Remove(t *testing.T) {
	env := newTestEnv(t)
	task := env.add(t, "task", testNow, calendar.Instant{})

	removed, err := env.service.Remove("task-0001")
	require.NoError(t, err)
	require.Equal(t, task.GUID(), removed.GUID())
	require.Empty(t, env.repo.tasks)

	_, err = env.service.Remove("task-0001")
	var notFound *domain.TaskNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestService_Conflicts(t *testing.T) {
	env := newTestEnv(t)

	env.add(t, "a", instant(2024, time.May, 13, 17, 0), instant(2024, time.May, 13, 9, 0))
	env.add(t, "b", instant(2024, time.May, 13, 18, 0), instant(2024, time.May, 13, 17, 0))
	env.add(t, "c", instant(2024, time.May, 14, 10, 0), instant(2024, time.May, 14, 9, 0))
	env.add(t, "d", instant(2024, time.May, 14, 12, 0), instant(2024, time.May, 14, 8, 0))
	env.add(t, "point", instant(2024, time.May, 20, 9, 0), calendar.Instant{})
	done := env.add(t, "done", instant(2024, time.May, 13, 12, 0), instant(2024, time.May, 13, 10, 0))
	_, err := env.service.Complete(done.GUID())
	require.NoError(t, err)

	conflicts, err := env.service.Conflicts()
	require.NoError(t, err)

	var pairs [][2]string
	for _, c := range conflicts {
		require.False(t, c.Second.Deadline().Before(c.First.Deadline()))
		pairs = append(pairs, [2]string{c.First.Name(), c.Second.Name()})
	}
	require.Equal(t, [][2]string{{"a", "b"}, {"c", "d"}}, pairs)
}
