// Package planner is the per-owner meal planning engine: it loads an owner's
// persisted state, applies the pure plan operations and stores the result.
package planner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fdg312/meal-planner/internal/catalog"
	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/notifications"
	"github.com/fdg312/meal-planner/internal/nutrition"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/weekdates"
)

// TargetsReader is the part of nutrition.Service the planner depends on.
type TargetsReader interface {
	GetOrDefault(ctx context.Context, ownerUserID string) (nutrition.Targets, bool, error)
}

// State is everything persisted for one owner except preferences and targets.
type State struct {
	Plan        mealplans.Plan   `json:"meal_plan"`
	CurrentWeek string           `json:"current_week,omitempty"`
	Selected    *mealplans.Slot  `json:"selected_slot"`
	Checked     map[string]bool  `json:"checked_items"`
	Extras      []shopping.Extra `json:"shopping_extras"`
}

// Export is the downloadable snapshot of an owner's planner.
type Export struct {
	State
	ExportedAt time.Time `json:"exported_at"`
}

// Service handles meal planning business logic.
type Service struct {
	state     storage.StateStorage
	notes     *notifications.Registry
	targets   TargetsReader
	weekStart time.Weekday
	logger    storage.Logger
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new planner service. notes and targets may be nil.
func NewService(state storage.StateStorage, notes *notifications.Registry, targets TargetsReader, weekStart time.Weekday, logger storage.Logger) *Service {
	return &Service{
		state:     state,
		notes:     notes,
		targets:   targets,
		weekStart: weekStart,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lock serialises mutations of one owner.
func (s *Service) lock(ownerUserID string) func() {
	s.mu.Lock()
	l, ok := s.locks[ownerUserID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerUserID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Load reads every planner key of the owner concurrently.
func (s *Service) Load(ctx context.Context, ownerUserID string) (State, error) {
	var (
		plan     mealplans.Plan
		pointer  WeekPointer
		selected mealplans.Slot
		checked  map[string]bool
		extras   []shopping.Extra
		hasSlot  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := storage.LoadJSON(gctx, s.state, ownerUserID, storage.KeyMealPlan, &plan, s.logger)
		return err
	})
	g.Go(func() error {
		_, err := storage.LoadJSON(gctx, s.state, ownerUserID, storage.KeyCurrentWeek, &pointer, s.logger)
		return err
	})
	g.Go(func() error {
		found, err := storage.LoadJSON(gctx, s.state, ownerUserID, storage.KeySelectedMealSlot, &selected, s.logger)
		hasSlot = found
		return err
	})
	g.Go(func() error {
		_, err := storage.LoadJSON(gctx, s.state, ownerUserID, storage.KeyCheckedItems, &checked, s.logger)
		return err
	})
	g.Go(func() error {
		_, err := storage.LoadJSON(gctx, s.state, ownerUserID, storage.KeyShoppingExtras, &extras, s.logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return State{}, fmt.Errorf("failed to load planner state: %w", err)
	}

	st := State{
		Plan:    mealplans.Normalize(plan),
		Checked: checked,
		Extras:  extras,
	}
	if st.Checked == nil {
		st.Checked = map[string]bool{}
	}
	if st.Extras == nil {
		st.Extras = []shopping.Extra{}
	}
	if _, err := weekdates.ParseKey(pointer.Date); err == nil {
		st.CurrentWeek = pointer.Date
	}
	if hasSlot && validSlot(selected) {
		st.Selected = &selected
	}
	return st, nil
}

func validSlot(slot mealplans.Slot) bool {
	if _, err := weekdates.ParseKey(slot.Date); err != nil {
		return false
	}
	return slot.MealType.Order() > 0
}

// save stores v under key. A failed write is logged and otherwise ignored:
// the caller already holds the new state and returns it.
func (s *Service) save(ctx context.Context, ownerUserID, key string, v any) {
	if err := storage.SaveJSON(ctx, s.state, ownerUserID, key, v); err != nil {
		s.logf("WARN planner: owner=%s key=%s save failed: %v", ownerUserID, key, err)
	}
}

func (s *Service) remove(ctx context.Context, ownerUserID, key string) {
	if err := s.state.DeleteState(ctx, ownerUserID, key); err != nil {
		s.logf("WARN planner: owner=%s key=%s delete failed: %v", ownerUserID, key, err)
	}
}

func (s *Service) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

func (s *Service) today() time.Time {
	return weekdates.Midnight(s.now().UTC())
}

// resolveDate parses key, falling back to fallback and then to today.
func (s *Service) resolveDate(key, fallback string) (time.Time, error) {
	if key == "" {
		key = fallback
	}
	if key == "" {
		return s.today(), nil
	}
	t, err := weekdates.ParseKey(key)
	if err != nil {
		return time.Time{}, fmt.Errorf("validation failed: %w", err)
	}
	return t, nil
}

// Week returns the planner grid of the week containing date. An empty date
// uses the stored current week, then today.
func (s *Service) Week(ctx context.Context, ownerUserID, date string) (WeekView, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return WeekView{}, err
	}
	ref, err := s.resolveDate(date, st.CurrentWeek)
	if err != nil {
		return WeekView{}, err
	}
	return s.weekView(st, ref), nil
}

func (s *Service) weekView(st State, ref time.Time) WeekView {
	dates := weekdates.WeekDates(ref, s.weekStart)
	view := WeekView{
		WeekStart: weekdates.FormatKey(dates[0]),
		WeekEnd:   weekdates.FormatKey(dates[len(dates)-1]),
		Days:      make([]DayView, 0, len(dates)),
		Selected:  st.Selected,
	}
	for _, d := range dates {
		key := weekdates.FormatKey(d)
		day := DayView{
			Date:    key,
			Display: weekdates.FormatDisplay(d),
			Meals:   make([]MealView, 0, len(mealplans.MealTypes)),
			Totals:  nutrition.Aggregate(st.Plan, key),
		}
		for _, mt := range mealplans.MealTypes {
			day.Meals = append(day.Meals, MealView{
				MealType: mt,
				Groups:   mealplans.Groups(st.Plan.Slot(key, mt)),
			})
		}
		view.Days = append(view.Days, day)
	}
	return view
}

// SetCurrentWeek moves the stored week pointer to req.Date.
func (s *Service) SetCurrentWeek(ctx context.Context, ownerUserID string, req SetWeekRequest) (WeekView, error) {
	if err := req.Validate(); err != nil {
		return WeekView{}, fmt.Errorf("validation failed: %w", err)
	}
	ref, err := s.resolveDate(req.Date, "")
	if err != nil {
		return WeekView{}, err
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return WeekView{}, err
	}
	st.CurrentWeek = weekdates.FormatKey(ref)
	s.save(ctx, ownerUserID, storage.KeyCurrentWeek, WeekPointer{Date: st.CurrentWeek})
	return s.weekView(st, ref), nil
}

// ShiftWeek moves the stored week pointer by req.Weeks weeks.
func (s *Service) ShiftWeek(ctx context.Context, ownerUserID string, req ShiftWeekRequest) (WeekView, error) {
	if err := req.Validate(); err != nil {
		return WeekView{}, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return WeekView{}, err
	}
	ref, err := s.resolveDate(st.CurrentWeek, "")
	if err != nil {
		return WeekView{}, err
	}
	ref = weekdates.WeekStart(weekdates.ShiftWeeks(ref, req.Weeks), s.weekStart)
	st.CurrentWeek = weekdates.FormatKey(ref)
	s.save(ctx, ownerUserID, storage.KeyCurrentWeek, WeekPointer{Date: st.CurrentWeek})
	return s.weekView(st, ref), nil
}

// AddMeal adds one serving of a catalog recipe. Without an explicit slot the
// selected slot is used and then cleared.
func (s *Service) AddMeal(ctx context.Context, ownerUserID string, req AddMealRequest) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, fmt.Errorf("validation failed: %w", err)
	}
	recipe, err := catalog.ByID(req.RecipeID)
	if err != nil {
		return MutationResult{}, err
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return MutationResult{}, err
	}

	var slot mealplans.Slot
	fromSelection := req.Date == ""
	if fromSelection {
		if st.Selected == nil {
			return MutationResult{}, ErrNoSelectedSlot
		}
		slot = *st.Selected
	} else {
		slot = SlotRequest{Date: req.Date, MealType: req.MealType}.Slot()
	}

	inst := mealplans.NewInstance(recipe, s.newID(), s.now())
	st.Plan = mealplans.AddRecipe(st.Plan, slot.Date, slot.MealType, inst)
	s.save(ctx, ownerUserID, storage.KeyMealPlan, st.Plan)
	if fromSelection {
		s.remove(ctx, ownerUserID, storage.KeySelectedMealSlot)
	}

	res := s.result(st.Plan, slot)
	res.Notification = s.notify(ownerUserID, notifications.Notification{
		Kind:       notifications.KindAdded,
		Message:    notifications.AddedMessage(recipe.Name, slot),
		Slot:       slot,
		RecipeName: recipe.Name,
		Count:      1,
	}, nil)
	return res, nil
}

// RemoveMeal removes one serving of the named group, or the whole group when
// all is set. Removing something absent is a no-op without a notification.
func (s *Service) RemoveMeal(ctx context.Context, ownerUserID string, req SlotRequest, name string, all bool) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, fmt.Errorf("validation failed: %w", err)
	}
	if name == "" {
		return MutationResult{}, fmt.Errorf("validation failed: recipe is required")
	}
	slot := req.Slot()

	return s.mutate(ctx, ownerUserID, slot, func(p mealplans.Plan) (mealplans.Plan, []mealplans.RecipeInstance) {
		if all {
			return mealplans.RemoveGroup(p, slot.Date, slot.MealType, name)
		}
		return mealplans.RemoveRecipe(p, slot.Date, slot.MealType, name)
	})
}

// RemoveInstance removes the instance with id from the slot.
func (s *Service) RemoveInstance(ctx context.Context, ownerUserID string, req SlotRequest, id string) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, fmt.Errorf("validation failed: %w", err)
	}
	slot := req.Slot()

	return s.mutate(ctx, ownerUserID, slot, func(p mealplans.Plan) (mealplans.Plan, []mealplans.RecipeInstance) {
		return mealplans.RemoveInstance(p, slot.Date, slot.MealType, id)
	})
}

// ChangeServings grows or shrinks a group. Shrinking is undoable like a removal.
func (s *Service) ChangeServings(ctx context.Context, ownerUserID string, req ChangeServingsRequest) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, fmt.Errorf("validation failed: %w", err)
	}
	slot := req.slot()

	return s.mutate(ctx, ownerUserID, slot, func(p mealplans.Plan) (mealplans.Plan, []mealplans.RecipeInstance) {
		return mealplans.ChangeServings(p, slot.Date, slot.MealType, req.Recipe, req.Delta, s.newID, s.now())
	})
}

// mutate applies op under the owner lock, saves the plan when it changed and
// raises an undoable notification for removed instances.
func (s *Service) mutate(ctx context.Context, ownerUserID string, slot mealplans.Slot, op func(mealplans.Plan) (mealplans.Plan, []mealplans.RecipeInstance)) (MutationResult, error) {
	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return MutationResult{}, err
	}

	before := st.Plan
	plan, removed := op(st.Plan)
	changed := len(removed) > 0 || groupsChanged(before, plan, slot)
	if changed {
		s.save(ctx, ownerUserID, storage.KeyMealPlan, plan)
	}

	res := s.result(plan, slot)
	if len(removed) == 0 {
		return res, nil
	}

	count := 0
	for _, inst := range removed {
		count += inst.ServingCount()
	}
	name := removed[0].Name
	res.Notification = s.notify(ownerUserID, notifications.Notification{
		Kind:       notifications.KindRemoved,
		Message:    notifications.RemovedMessage(count, name, slot),
		Slot:       slot,
		RecipeName: name,
		Count:      count,
	}, &notifications.UndoPayload{Slot: slot, Instances: removed})
	return res, nil
}

func groupsChanged(before, after mealplans.Plan, slot mealplans.Slot) bool {
	return len(before.Slot(slot.Date, slot.MealType)) != len(after.Slot(slot.Date, slot.MealType))
}

func (s *Service) result(p mealplans.Plan, slot mealplans.Slot) MutationResult {
	return MutationResult{
		Slot:   slot,
		Groups: mealplans.Groups(p.Slot(slot.Date, slot.MealType)),
	}
}

func (s *Service) notify(ownerUserID string, n notifications.Notification, payload *notifications.UndoPayload) *notifications.Notification {
	if s.notes == nil {
		return nil
	}
	n.ID = s.newID()
	shown := s.notes.For(ownerUserID).Notify(n, payload)
	return &shown
}

// Clear empties the owner's plan.
func (s *Service) Clear(ctx context.Context, ownerUserID string) error {
	unlock := s.lock(ownerUserID)
	defer unlock()

	if err := storage.SaveJSON(ctx, s.state, ownerUserID, storage.KeyMealPlan, mealplans.ClearAll()); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	return nil
}

// Export returns the owner's whole planner state.
func (s *Service) Export(ctx context.Context, ownerUserID string) (Export, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return Export{}, err
	}
	return Export{State: st, ExportedAt: s.now().UTC()}, nil
}

// Selection returns the selected slot, nil when none.
func (s *Service) Selection(ctx context.Context, ownerUserID string) (*mealplans.Slot, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return st.Selected, nil
}

// Select stores the slot the next add goes to.
func (s *Service) Select(ctx context.Context, ownerUserID string, req SlotRequest) (mealplans.Slot, error) {
	if err := req.Validate(); err != nil {
		return mealplans.Slot{}, fmt.Errorf("validation failed: %w", err)
	}
	slot := req.Slot()

	unlock := s.lock(ownerUserID)
	defer unlock()

	if err := storage.SaveJSON(ctx, s.state, ownerUserID, storage.KeySelectedMealSlot, slot); err != nil {
		return mealplans.Slot{}, fmt.Errorf("failed to select meal slot: %w", err)
	}
	return slot, nil
}

// ClearSelection forgets the selected slot.
func (s *Service) ClearSelection(ctx context.Context, ownerUserID string) error {
	unlock := s.lock(ownerUserID)
	defer unlock()

	if err := s.state.DeleteState(ctx, ownerUserID, storage.KeySelectedMealSlot); err != nil {
		return fmt.Errorf("failed to clear meal slot: %w", err)
	}
	return nil
}

// Notification returns the owner's visible notification.
func (s *Service) Notification(ownerUserID string) (notifications.Notification, bool) {
	if s.notes == nil {
		return notifications.Notification{}, false
	}
	return s.notes.For(ownerUserID).Current()
}

// DismissNotification hides the notification with id.
func (s *Service) DismissNotification(ownerUserID string, req NotificationActionRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if s.notes == nil {
		return notifications.ErrNotificationNotFound
	}
	return s.notes.For(ownerUserID).Dismiss(req.ID)
}

// Undo puts back what the removal behind the notification took out.
func (s *Service) Undo(ctx context.Context, ownerUserID string, req NotificationActionRequest) (MutationResult, error) {
	if err := req.Validate(); err != nil {
		return MutationResult{}, fmt.Errorf("validation failed: %w", err)
	}
	if s.notes == nil {
		return MutationResult{}, notifications.ErrNotificationNotFound
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	payload, err := s.notes.For(ownerUserID).Undo(req.ID)
	if err != nil {
		return MutationResult{}, err
	}

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return MutationResult{}, err
	}
	slot := payload.Slot
	st.Plan = mealplans.Restore(st.Plan, slot.Date, slot.MealType, payload.Instances)
	s.save(ctx, ownerUserID, storage.KeyMealPlan, st.Plan)
	return s.result(st.Plan, slot), nil
}

// DayNutrition returns totals for one date, today by default.
func (s *Service) DayNutrition(ctx context.Context, ownerUserID, date string) (nutrition.DayStats, error) {
	ref, err := s.resolveDate(date, "")
	if err != nil {
		return nutrition.DayStats{}, err
	}
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nutrition.DayStats{}, err
	}
	return nutrition.Stats(st.Plan, weekdates.FormatKey(ref)), nil
}

// WeekNutrition returns the weekly report of the week containing date. An
// empty date uses the stored current week, then today.
func (s *Service) WeekNutrition(ctx context.Context, ownerUserID, date string) (nutrition.WeeklyReport, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nutrition.WeeklyReport{}, err
	}
	ref, err := s.resolveDate(date, st.CurrentWeek)
	if err != nil {
		return nutrition.WeeklyReport{}, err
	}
	return s.weeklyReport(ctx, ownerUserID, st, ref)
}

// WeeklyReport is WeekNutrition for a reference date.
func (s *Service) WeeklyReport(ctx context.Context, ownerUserID string, ref time.Time) (nutrition.WeeklyReport, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nutrition.WeeklyReport{}, err
	}
	return s.weeklyReport(ctx, ownerUserID, st, ref)
}

func (s *Service) weeklyReport(ctx context.Context, ownerUserID string, st State, ref time.Time) (nutrition.WeeklyReport, error) {
	targets, err := s.targetsFor(ctx, ownerUserID)
	if err != nil {
		return nutrition.WeeklyReport{}, err
	}
	week := nutrition.AggregateWeek(st.Plan, weekdates.WeekKeys(ref, s.weekStart))
	return nutrition.BuildWeeklyReport(week, targets), nil
}

func (s *Service) targetsFor(ctx context.Context, ownerUserID string) (nutrition.Targets, error) {
	if s.targets == nil {
		return nutrition.DefaultTargets(), nil
	}
	t, _, err := s.targets.GetOrDefault(ctx, ownerUserID)
	return t, err
}

// Dashboard returns the daily overview of date, today by default.
func (s *Service) Dashboard(ctx context.Context, ownerUserID, date string) (Dashboard, error) {
	ref, err := s.resolveDate(date, "")
	if err != nil {
		return Dashboard{}, err
	}
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return Dashboard{}, err
	}
	targets, err := s.targetsFor(ctx, ownerUserID)
	if err != nil {
		return Dashboard{}, err
	}

	key := weekdates.FormatKey(ref)
	stats := nutrition.Stats(st.Plan, key)
	return Dashboard{
		Stats:       stats,
		Targets:     targets,
		Calories:    nutrition.NewProgress(float64(stats.Totals.Calories), float64(targets.CaloriesKcal)),
		Protein:     nutrition.NewProgress(stats.Totals.Protein, float64(targets.ProteinG)),
		RecentMeals: recentMeals(st.Plan, key),
	}, nil
}

// recentMeals lists the day's groups ordered by meal type.
func recentMeals(p mealplans.Plan, dateKey string) []RecentMeal {
	meals := []RecentMeal{}
	for _, mt := range mealplans.MealTypes {
		for _, g := range mealplans.Groups(p.Slot(dateKey, mt)) {
			kcal := 0
			for _, inst := range g.Instances {
				kcal += int(inst.Calories) * inst.ServingCount()
			}
			meals = append(meals, RecentMeal{
				MealType: mt,
				Order:    mt.Order(),
				Time:     mealTimes[mt],
				Name:     g.Name,
				Servings: g.Servings,
				Calories: kcal,
			})
		}
	}
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].Order < meals[j].Order })
	return meals
}

// Shopping returns the grocery list of the week containing date or of that
// single day, with check marks and manual items joined on.
func (s *Service) Shopping(ctx context.Context, ownerUserID, date, scope string, mostUsed bool) (ShoppingView, error) {
	if scope == "" {
		scope = ScopeWeek
	}
	if scope != ScopeWeek && scope != ScopeDay {
		return ShoppingView{}, fmt.Errorf("validation failed: scope must be one of [week day]")
	}

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return ShoppingView{}, err
	}
	fallback := st.CurrentWeek
	if scope == ScopeDay {
		fallback = ""
	}
	ref, err := s.resolveDate(date, fallback)
	if err != nil {
		return ShoppingView{}, err
	}

	var filter shopping.Filter
	if scope == ScopeDay {
		filter = shopping.SingleDay(weekdates.FormatKey(ref))
	} else {
		filter = shopping.WholeWeek(weekdates.WeekKeys(ref, s.weekStart))
	}

	items := shopping.Apply(shopping.Generate(st.Plan, filter), st.Checked)
	if mostUsed {
		items = shopping.SortMostUsed(items)
	}
	return ShoppingView{
		Scope:      scope,
		Dates:      filter.Dates,
		Items:      items,
		Categories: shopping.GroupByCategory(items),
		Extras:     shopping.ApplyExtras(st.Extras, st.Checked),
	}, nil
}

// WeekShopping returns the week's list and manual items for reports.
func (s *Service) WeekShopping(ctx context.Context, ownerUserID string, ref time.Time) ([]shopping.Item, []shopping.Extra, error) {
	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nil, nil, err
	}
	filter := shopping.WholeWeek(weekdates.WeekKeys(ref, s.weekStart))
	items := shopping.Apply(shopping.Generate(st.Plan, filter), st.Checked)
	return items, shopping.ApplyExtras(st.Extras, st.Checked), nil
}

// SetChecked marks or unmarks one list entry.
func (s *Service) SetChecked(ctx context.Context, ownerUserID string, req CheckItemRequest) (map[string]bool, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if req.Checked {
		st.Checked[req.Key] = true
	} else {
		delete(st.Checked, req.Key)
	}
	s.save(ctx, ownerUserID, storage.KeyCheckedItems, st.Checked)
	return st.Checked, nil
}

// ClearChecked drops every mark, or with prune only the marks of entries no
// longer present anywhere in the plan or the manual items.
func (s *Service) ClearChecked(ctx context.Context, ownerUserID string, prune bool) (map[string]bool, error) {
	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	checked := map[string]bool{}
	if prune {
		items := shopping.Generate(st.Plan, shopping.WholeWeek(st.Plan.Dates()))
		checked = shopping.Prune(st.Checked, items, st.Extras)
	}
	s.save(ctx, ownerUserID, storage.KeyCheckedItems, checked)
	return checked, nil
}

// AddExtra stores a manual shopping item.
func (s *Service) AddExtra(ctx context.Context, ownerUserID string, req shopping.AddExtraRequest) (shopping.Extra, error) {
	if err := req.Validate(); err != nil {
		return shopping.Extra{}, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return shopping.Extra{}, err
	}
	extra := shopping.NewExtra(req, s.newID(), s.now())
	st.Extras = append(st.Extras, extra)
	s.save(ctx, ownerUserID, storage.KeyShoppingExtras, st.Extras)
	return extra, nil
}

// RemoveExtra deletes a manual shopping item and its check mark.
func (s *Service) RemoveExtra(ctx context.Context, ownerUserID, id string) error {
	unlock := s.lock(ownerUserID)
	defer unlock()

	st, err := s.Load(ctx, ownerUserID)
	if err != nil {
		return err
	}
	extras, found := shopping.RemoveExtra(st.Extras, id)
	if !found {
		return ErrExtraNotFound
	}
	s.save(ctx, ownerUserID, storage.KeyShoppingExtras, extras)

	key := shopping.Extra{ID: id}.Key()
	if st.Checked[key] {
		delete(st.Checked, key)
		s.save(ctx, ownerUserID, storage.KeyCheckedItems, st.Checked)
	}
	return nil
}
