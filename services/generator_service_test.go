package services

import (
	"testing"
	"time"

	"tutorpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGeneratorFixture(t *testing.T) (*GeneratorService, *gorm.DB, *models.Workspace, *models.User, *models.Customer) {
	t.Helper()
	db := newTestDB(t)
	workspace := seedWorkspace(t, db)
	teacher := seedUser(t, db, workspace.ID, models.RoleTeacher)
	customer := seedCustomer(t, db, workspace.ID)
	svc := NewGeneratorService(db, NewInvoiceNumberService(db))
	return svc, db, workspace, teacher, customer
}

// Three billable March lessons (one fixed €50, two hourly 1.5h at €40/h)
// at 19% VAT must yield one draft invoice: 17000 + 3230 = 20230 cents.
func TestGenerateMonthlyScenario(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)
	customer.HourlyRate = f64(40)

	fixed := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, db.Model(fixed).Update("rate", 50.0).Error)
	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), 90*time.Minute)
	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC), 90*time.Minute)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	var invoice models.Invoice
	require.NoError(t, db.Preload("Items").First(&invoice, "id = ?", ids[0]).Error)

	assert.Equal(t, models.InvoiceDraft, invoice.Status)
	assert.Len(t, invoice.Items, 3)
	assert.Equal(t, int64(17000), invoice.Subtotal)
	assert.Equal(t, int64(3230), invoice.TaxTotal)
	assert.Equal(t, int64(20230), invoice.Total)
	assert.Equal(t, invoice.Subtotal+invoice.TaxTotal, invoice.Total)

	var subtotal int64
	for _, item := range invoice.Items {
		subtotal += item.Total
	}
	assert.Equal(t, invoice.Subtotal, subtotal)

	// all source lessons are now linked to the invoice
	var linked int64
	db.Model(&models.Lesson{}).Where("invoice_id = ?", invoice.ID).Count(&linked)
	assert.Equal(t, int64(3), linked)
}

func TestGenerateMonthlyLineItems(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Updates(map[string]interface{}{
		"hourly_rate":          40.0,
		"service_descriptions": models.StringList{"Math tutoring"},
	}).Error)

	fixed := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, db.Model(fixed).Update("rate", 50.0).Error)
	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), 90*time.Minute)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	var items []models.InvoiceItem
	require.NoError(t, db.Where("invoice_id = ?", ids[0]).Find(&items).Error)
	require.Len(t, items, 2)

	byUnit := map[string]models.InvoiceItem{}
	for _, item := range items {
		byUnit[item.Unit] = item
		assert.Equal(t, "Math tutoring", item.Description)
		require.NotNil(t, item.LessonID)
	}

	lessonItem := byUnit["Lesson"]
	assert.Equal(t, 1.0, lessonItem.Quantity)
	assert.Equal(t, int64(5000), lessonItem.UnitPrice)
	assert.Equal(t, int64(5000), lessonItem.Total)

	hourItem := byUnit["Hour"]
	assert.Equal(t, 1.5, hourItem.Quantity)
	assert.Equal(t, int64(4000), hourItem.UnitPrice)
	assert.Equal(t, int64(6000), hourItem.Total)
}

// Running the generator a second time must not create anything new or
// move any lesson to a different invoice.
func TestGenerateMonthlyIdempotent(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)

	lesson := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)

	first, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, first, 1)

	var before models.Lesson
	require.NoError(t, db.First(&before, "id = ?", lesson.ID).Error)

	second, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	assert.Empty(t, second)

	var after models.Lesson
	require.NoError(t, db.First(&after, "id = ?", lesson.ID).Error)
	assert.Equal(t, before.InvoiceID, after.InvoiceID)

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateMonthlySkipsNonBillableAndOtherMonths(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)

	cancelled := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, db.Model(cancelled).Updates(map[string]interface{}{
		"status":      models.LessonCancelledOnTime,
		"is_billable": false,
	}).Error)
	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC), time.Hour)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGenerateMonthlyVATExemptCustomer(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Updates(map[string]interface{}{
		"hourly_rate": 40.0,
		"vat_exempt":  true,
	}).Error)

	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	var invoice models.Invoice
	require.NoError(t, db.First(&invoice, "id = ?", ids[0]).Error)
	assert.Equal(t, int64(4000), invoice.Subtotal)
	assert.Zero(t, invoice.TaxTotal)
	assert.Equal(t, invoice.Subtotal, invoice.Total)
}

func TestGenerateMonthlyPaymentTerms(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Updates(map[string]interface{}{
		"hourly_rate":        40.0,
		"payment_terms_days": 30,
	}).Error)

	now := time.Date(2026, time.April, 1, 4, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	var invoice models.Invoice
	require.NoError(t, db.First(&invoice, "id = ?", ids[0]).Error)
	assert.WithinDuration(t, now, invoice.Date, time.Second)
	assert.WithinDuration(t, now.AddDate(0, 0, 30), invoice.DueDate, time.Second)
}

func TestGenerateMonthlyOneInvoicePerCustomer(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)
	other := seedCustomer(t, db, workspace.ID)
	require.NoError(t, db.Model(other).Updates(map[string]interface{}{
		"name":        "Beta GmbH",
		"phone":       "+4915112345678",
		"hourly_rate": 35.0,
	}).Error)

	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)
	seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 12, 10, 0, 0, 0, time.UTC), time.Hour)
	seedLesson(t, db, workspace.ID, teacher.ID, other.ID,
		time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC), time.Hour)

	ids, err := svc.GenerateMonthly(workspace.ID, 2026, time.March)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestGenerateForLesson(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)

	lesson := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)

	invoice, err := svc.GenerateForLesson(workspace.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceDraft, invoice.Status)
	assert.Equal(t, int64(4000), invoice.Subtotal)

	var reloaded models.Lesson
	require.NoError(t, db.First(&reloaded, "id = ?", lesson.ID).Error)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.InvoiceID)

	// a second attempt must refuse to double-bill
	_, err = svc.GenerateForLesson(workspace.ID, lesson.ID)
	assert.ErrorIs(t, err, ErrLessonAlreadyInvoiced)
}

func TestGenerateForLessonScopedToWorkspace(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)
	require.NoError(t, db.Model(customer).Update("hourly_rate", 40.0).Error)
	otherWorkspace := seedWorkspace(t, db)

	lesson := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)

	_, err := svc.GenerateForLesson(otherWorkspace.ID, lesson.ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	// nothing was billed anywhere
	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
}

func TestGenerateForNonBillableLesson(t *testing.T) {
	svc, db, workspace, teacher, customer := newGeneratorFixture(t)

	lesson := seedLesson(t, db, workspace.ID, teacher.ID, customer.ID,
		time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, db.Model(lesson).Updates(map[string]interface{}{
		"status":      models.LessonCancelledOnTime,
		"is_billable": false,
	}).Error)

	_, err := svc.GenerateForLesson(workspace.ID, lesson.ID)
	require.Error(t, err)
	assert.True(t, IsPolicyError(err))
}
