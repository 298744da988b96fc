package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/kendall-kelly/repair-desk-api/models"
	"github.com/kendall-kelly/repair-desk-api/tests/testutil"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_CreateStatusDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewSettingsService(db)
	ctx := context.Background()

	id, err := svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("Новый")})
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, fmt.Sprint(id))
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "Новый", status.Name)
	assert.Equal(t, models.DefaultStatusColor, *status.Color)
	assert.Equal(t, models.DefaultStatusIcon, *status.Icon)
	assert.Equal(t, 0, *status.SortOrder)
	assert.True(t, *status.IsActive)
}

func TestSettingsService_CreateStatusRequiresName(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestDB(t))

	_, err := svc.CreateStatus(context.Background(), StatusInput{Color: testutil.Ptr("#000000")})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))
}

func TestSettingsService_DuplicateStatusIsConflict(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("Готов")})
	require.NoError(t, err)

	_, err = svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("Готов")})
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestSettingsService_ListStatusesOrdered(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, in := range []StatusInput{
		{Name: testutil.Ptr("Выдан"), SortOrder: testutil.Ptr(3)},
		{Name: testutil.Ptr("Готов"), SortOrder: testutil.Ptr(2)},
		{Name: testutil.Ptr("В работе"), SortOrder: testutil.Ptr(2)},
		{Name: testutil.Ptr("Новый"), SortOrder: testutil.Ptr(1)},
	} {
		_, err := svc.CreateStatus(ctx, in)
		require.NoError(t, err)
	}

	statuses, err := svc.ListStatuses(ctx)
	require.NoError(t, err)
	names := lo.Map(statuses, func(s models.OrderStatus, _ int) string { return s.Name })
	assert.Equal(t, []string{"Новый", "В работе", "Готов", "Выдан"}, names)
}

func TestSettingsService_UpdateStatusReplacesFields(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestDB(t))
	ctx := context.Background()

	id, err := svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("Ждёт запчасть"), SortOrder: testutil.Ptr(5)})
	require.NoError(t, err)

	err = svc.UpdateStatus(ctx, fmt.Sprint(id), StatusInput{
		Name:  testutil.Ptr("Ожидает запчасть"),
		Color: testutil.Ptr("#F59E0B"),
	})
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, fmt.Sprint(id))
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "Ожидает запчасть", status.Name)
	assert.Equal(t, "#F59E0B", *status.Color)
	assert.Nil(t, status.Icon)
	assert.Nil(t, status.SortOrder)
	assert.Nil(t, status.IsActive)

	err = svc.UpdateStatus(ctx, "", StatusInput{Name: testutil.Ptr("x")})
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))

	err = svc.UpdateStatus(ctx, "777", StatusInput{Name: testutil.Ptr("x")})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestSettingsService_DeleteStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewSettingsService(db)
	ctx := context.Background()

	usedID, err := svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("ready")})
	require.NoError(t, err)
	freeID, err := svc.CreateStatus(ctx, StatusInput{Name: testutil.Ptr("archived")})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Order{OrderNumber: "2025-001", Status: "ready"}).Error)

	t.Run("status used by an order is refused", func(t *testing.T) {
		err := svc.DeleteStatus(ctx, fmt.Sprint(usedID))
		require.Error(t, err)
		assert.True(t, utils.IsKind(err, utils.KindIntegrity))

		status, err := svc.GetStatus(ctx, fmt.Sprint(usedID))
		require.NoError(t, err)
		assert.NotNil(t, status, "Status must survive a refused delete")
	})

	t.Run("unused status is deleted", func(t *testing.T) {
		require.NoError(t, svc.DeleteStatus(ctx, fmt.Sprint(freeID)))

		status, err := svc.GetStatus(ctx, fmt.Sprint(freeID))
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.True(t, utils.IsKind(svc.DeleteStatus(ctx, ""), utils.KindBadRequest))
		assert.True(t, utils.IsKind(svc.DeleteStatus(ctx, "404"), utils.KindNotFound))
	})
}

func TestSettingsService_Templates(t *testing.T) {
	svc := NewSettingsService(testutil.NewTestDB(t))
	ctx := context.Background()

	receiptID, err := svc.CreateTemplate(ctx, TemplateInput{Name: testutil.Ptr("Квитанция")})
	require.NoError(t, err)
	_, err = svc.CreateTemplate(ctx, TemplateInput{
		Name:         testutil.Ptr("Акт выполненных работ"),
		TemplateType: testutil.Ptr("act"),
		Content:      testutil.Ptr("<h1>{{order_number}}</h1>"),
		IsDefault:    testutil.Ptr(true),
	})
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		template, err := svc.GetTemplate(ctx, fmt.Sprint(receiptID))
		require.NoError(t, err)
		require.NotNil(t, template)
		assert.Equal(t, models.DefaultTemplateType, *template.TemplateType)
		assert.Equal(t, "", *template.Content)
		assert.False(t, *template.IsDefault)
	})

	t.Run("listed by name", func(t *testing.T) {
		templates, err := svc.ListTemplates(ctx)
		require.NoError(t, err)
		names := lo.Map(templates, func(p models.PrintTemplate, _ int) string { return p.Name })
		assert.Equal(t, []string{"Акт выполненных работ", "Квитанция"}, names)
	})

	t.Run("update", func(t *testing.T) {
		err := svc.UpdateTemplate(ctx, fmt.Sprint(receiptID), TemplateInput{
			Name:    testutil.Ptr("Квитанция о приёме"),
			Content: testutil.Ptr("body"),
		})
		require.NoError(t, err)

		template, err := svc.GetTemplate(ctx, fmt.Sprint(receiptID))
		require.NoError(t, err)
		assert.Equal(t, "Квитанция о приёме", template.Name)
		assert.Equal(t, "body", *template.Content)
		assert.Nil(t, template.TemplateType)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(ctx, fmt.Sprint(receiptID)))

		template, err := svc.GetTemplate(ctx, fmt.Sprint(receiptID))
		require.NoError(t, err)
		assert.Nil(t, template)

		assert.True(t, utils.IsKind(svc.DeleteTemplate(ctx, fmt.Sprint(receiptID)), utils.KindNotFound))
		assert.True(t, utils.IsKind(svc.DeleteTemplate(ctx, ""), utils.KindBadRequest))
	})
}
