package tracks

import (
	"fmt"
	"path"
	"time"

	"github.com/caasion/holos/internal/grammar"
	"github.com/caasion/holos/internal/plan"
	"github.com/caasion/holos/internal/section"
	"github.com/caasion/holos/internal/vault"
)

// withSelfWrite runs a store mutation with the self-write flag held. The
// flag stays raised for the suppress grace after fn returns, so the
// watcher echo of our own write is not observed as an external edit.
func (s *Service) withSelfWrite(fn func() error) error {
	s.mu.Lock()
	s.writing = true
	s.mu.Unlock()

	defer time.AfterFunc(s.opts.SuppressGrace, func() {
		s.mu.Lock()
		s.writing = false
		s.mu.Unlock()
	})

	return fn()
}

// trackFilesFor looks up the cache entry for a track id.
func (s *Service) trackFilesFor(trackID string) (trackFiles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tf, ok := s.fileCache[trackID]
	if !ok {
		return trackFiles{}, fmt.Errorf("track %s: %w", trackID, plan.ErrNotFound)
	}
	return tf, nil
}

func (s *Service) projectPath(trackID, projectID string) (string, error) {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return "", err
	}
	p, ok := tf.projects[projectID]
	if !ok {
		return "", fmt.Errorf("project %s: %w", projectID, plan.ErrNotFound)
	}
	return p, nil
}

// ===== Track operations =====

// CreateTrack writes a new track folder and note, then rediscovers.
func (s *Service) CreateTrack(track plan.Track) error {
	if track.ID == "" {
		track.ID = plan.GenerateID("track")
	}
	folder := path.Join(s.opts.Folder, track.Label)
	notePath := path.Join(folder, track.Label+".md")

	note, err := renderTrackNote(track)
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	err = s.withSelfWrite(func() error {
		return s.store.CreateFile(notePath, note)
	})
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	return s.Invalidate()
}

// DeleteTrack removes a track folder and everything in it.
func (s *Service) DeleteTrack(trackID string) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		return s.store.DeleteFile(path.Dir(tf.trackPath))
	})
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return s.Invalidate()
}

// RenameTrack renames a track's note and its folder. The label is the
// file name, so both must move together.
func (s *Service) RenameTrack(trackID, label string) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}

	oldFolder := path.Dir(tf.trackPath)
	newFolder := path.Join(s.opts.Folder, label)

	err = s.withSelfWrite(func() error {
		if err := s.store.RenameFile(tf.trackPath, path.Join(oldFolder, label+".md")); err != nil {
			return err
		}
		return s.store.RenameFile(oldFolder, newFolder)
	})
	if err != nil {
		return fmt.Errorf("failed to rename track: %w", err)
	}
	return s.Invalidate()
}

// UpdateTrackFrontmatter merges fields into a track note's frontmatter.
func (s *Service) UpdateTrackFrontmatter(trackID string, fields map[string]any) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		return s.store.WriteFrontmatter(tf.trackPath, func(fm map[string]any) {
			for k, v := range fields {
				fm[k] = v
			}
		})
	})
	if err != nil {
		return fmt.Errorf("failed to update track frontmatter: %w", err)
	}
	return s.Refresh(trackID)
}

// UpdateDescription replaces a track's description, the free text
// between the frontmatter and the first heading. A note without
// frontmatter is left untouched.
func (s *Service) UpdateDescription(trackID, description string) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		content, err := s.store.ReadFile(tf.trackPath)
		if err != nil {
			return err
		}
		updated, err := section.ReplaceFirst(content, description)
		if err != nil {
			return err
		}
		return s.store.WriteFile(tf.trackPath, updated)
	})
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	return s.Refresh(trackID)
}

// UpdateHabits rewrites a track's habit section.
func (s *Service) UpdateHabits(trackID string, habits map[string]plan.Habit) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}
	if err := s.writeHabits(tf.trackPath, habits); err != nil {
		return fmt.Errorf("failed to update habits: %w", err)
	}
	return s.Refresh(trackID)
}

// SetActiveProject flags one project active, clearing the flag on any
// other project of the track. An empty projectID clears all flags.
func (s *Service) SetActiveProject(trackID, projectID string) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}
	if projectID != "" {
		if _, ok := tf.projects[projectID]; !ok {
			return fmt.Errorf("project %s: %w", projectID, plan.ErrNotFound)
		}
	}

	err = s.withSelfWrite(func() error {
		for pid, ppath := range tf.projects {
			active := pid == projectID
			err := s.store.WriteFrontmatter(ppath, func(fm map[string]any) {
				if active {
					fm["active_project"] = true
				} else {
					delete(fm, "active_project")
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set active project: %w", err)
	}
	return s.Invalidate()
}

// ===== Project operations =====

// CreateProject writes a new project note inside the track's folder.
func (s *Service) CreateProject(trackID string, project plan.Project) error {
	tf, err := s.trackFilesFor(trackID)
	if err != nil {
		return err
	}
	if project.ID == "" {
		project.ID = plan.GenerateID("project")
	}
	notePath := path.Join(path.Dir(tf.trackPath), project.Label+".md")

	note, err := renderProjectNote(project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	err = s.withSelfWrite(func() error {
		return s.store.CreateFile(notePath, note)
	})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return s.Invalidate()
}

// DeleteProject removes a project note.
func (s *Service) DeleteProject(trackID, projectID string) error {
	ppath, err := s.projectPath(trackID, projectID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		return s.store.DeleteFile(ppath)
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return s.Invalidate()
}

// RenameProject renames a project note.
func (s *Service) RenameProject(trackID, projectID, label string) error {
	ppath, err := s.projectPath(trackID, projectID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		return s.store.RenameFile(ppath, path.Join(path.Dir(ppath), label+".md"))
	})
	if err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
	}
	return s.Invalidate()
}

// UpdateProjectDates sets a project's date range. An empty end date
// removes the bound.
func (s *Service) UpdateProjectDates(trackID, projectID string, start, end plan.ISODate) error {
	ppath, err := s.projectPath(trackID, projectID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		return s.store.WriteFrontmatter(ppath, func(fm map[string]any) {
			fm["start_date"] = string(start)
			if end == "" {
				delete(fm, "end_date")
			} else {
				fm["end_date"] = string(end)
			}
		})
	})
	if err != nil {
		return fmt.Errorf("failed to update project dates: %w", err)
	}
	return s.Refresh(trackID)
}

// UpdateProjectElements rewrites a project's task section.
func (s *Service) UpdateProjectElements(trackID, projectID string, elements []plan.Element) error {
	ppath, err := s.projectPath(trackID, projectID)
	if err != nil {
		return err
	}

	err = s.withSelfWrite(func() error {
		content, err := s.store.ReadFile(ppath)
		if err != nil {
			return err
		}
		updated := section.Replace(content, tasksHeading, grammar.SerializeDataSection(elements))
		return s.store.WriteFile(ppath, updated)
	})
	if err != nil {
		return fmt.Errorf("failed to update project elements: %w", err)
	}
	return s.Refresh(trackID)
}

// UpdateProjectHabits rewrites a project's habit section.
func (s *Service) UpdateProjectHabits(trackID, projectID string, habits map[string]plan.Habit) error {
	ppath, err := s.projectPath(trackID, projectID)
	if err != nil {
		return err
	}
	if err := s.writeHabits(ppath, habits); err != nil {
		return fmt.Errorf("failed to update project habits: %w", err)
	}
	return s.Refresh(trackID)
}

// ===== Habit helpers =====

// writeHabits replaces the habit section of a note.
func (s *Service) writeHabits(notePath string, habits map[string]plan.Habit) error {
	return s.withSelfWrite(func() error {
		content, err := s.store.ReadFile(notePath)
		if err != nil {
			return err
		}
		updated := section.Replace(content, habitsHeading, grammar.SerializeHabits(habits))
		return s.store.WriteFile(notePath, updated)
	})
}

// AddHabit adds or replaces a habit in a track's habit section.
func (s *Service) AddHabit(trackID string, habit plan.Habit) error {
	track, err := s.trackSnapshot(trackID)
	if err != nil {
		return err
	}
	if habit.ID == "" {
		habit.ID = grammar.HabitID(habit.Label)
	}

	habits := make(map[string]plan.Habit, len(track.Habits)+1)
	for id, h := range track.Habits {
		habits[id] = h
	}
	habits[habit.ID] = habit
	return s.UpdateHabits(trackID, habits)
}

// RemoveHabit deletes a habit from a track by id.
func (s *Service) RemoveHabit(trackID, habitID string) error {
	track, err := s.trackSnapshot(trackID)
	if err != nil {
		return err
	}
	if _, ok := track.Habits[habitID]; !ok {
		return fmt.Errorf("habit %s: %w", habitID, plan.ErrNotFound)
	}

	habits := make(map[string]plan.Habit, len(track.Habits)-1)
	for id, h := range track.Habits {
		if id != habitID {
			habits[id] = h
		}
	}
	return s.UpdateHabits(trackID, habits)
}

func (s *Service) trackSnapshot(trackID string) (plan.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	track, ok := s.tracks[trackID]
	if !ok {
		return plan.Track{}, fmt.Errorf("track %s: %w", trackID, plan.ErrNotFound)
	}
	return track, nil
}

// ===== Note templates =====

func renderTrackNote(track plan.Track) (string, error) {
	color := track.Color
	if color == "" {
		color = defaultColor
	}
	fm := map[string]any{
		"id":    track.ID,
		"tags":  []string{tagTrack},
		"order": track.Order,
		"color": color,
	}
	if track.TimeCommitment != 0 {
		fm["time_commitment"] = track.TimeCommitment
	}
	if track.JournalHeader != "" {
		fm["journal_header"] = track.JournalHeader
	}

	body := track.Description
	body += "\n\n## " + habitsHeading + "\n" + grammar.SerializeHabits(track.Habits) + "\n"
	return vault.RenderFrontmatter(fm, body)
}

func renderProjectNote(project plan.Project) (string, error) {
	fm := map[string]any{
		"id":         project.ID,
		"tags":       []string{tagProject},
		"start_date": string(project.StartDate),
	}
	if project.EndDate != "" {
		fm["end_date"] = string(project.EndDate)
	}

	body := "## " + tasksHeading + "\n" + grammar.SerializeDataSection(project.Elements) + "\n"
	body += "\n## " + habitsHeading + "\n" + grammar.SerializeHabits(project.Habits) + "\n"
	return vault.RenderFrontmatter(fm, body)
}
