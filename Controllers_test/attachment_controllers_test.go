package Controllers_test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rizkypratama/notice-board/models"
)

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	w := doUpload(t, r, token, "malware.exe", "MZ...", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tidak ada row maupun file yang tersimpan
	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	assert.Equal(t, int64(0), count)

	entries, err := os.ReadDir(uploadDir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadAndDownload(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	admin, token := seedUser(t, db, "board_admin", "password123", true)
	notif := seedNotification(t, db, admin.ID, "With file", "Body", "medium", true)

	w := doUpload(t, r, token, "minutes.txt", "meeting notes", fmt.Sprintf("%d", notif.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	att := dataOf(t, w)["attachment"].(map[string]interface{})
	storageName := att["filename"].(string)
	assert.NotEqual(t, "minutes.txt", storageName)
	assert.Equal(t, "minutes.txt", att["originalFilename"])
	assert.Equal(t, float64(notif.ID), att["notificationId"])

	// File benar-benar ada di disk dengan nama penyimpanan
	_, err := os.Stat(filepath.Join(uploadDir, storageName))
	assert.NoError(t, err)

	// Download pakai nama internal, header pakai nama asli
	w = doJSON(t, r, "GET", "/files/"+storageName, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "meeting notes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "minutes.txt")

	// List attachment per notifikasi
	w = doJSON(t, r, "GET", fmt.Sprintf("/notifications/%d/attachments", notif.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	attachments := dataOf(t, w)["attachments"].([]interface{})
	assert.Len(t, attachments, 1)
}

func TestUploadUnlinkedThenMissingParent(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	// Tanpa notification_id boleh: attachment dibuat dulu, di-link belakangan
	w := doUpload(t, r, token, "orphan.txt", "standalone", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	att := dataOf(t, w)["attachment"].(map[string]interface{})
	assert.Nil(t, att["notificationId"])

	// notification_id yang tidak ada -> 404 dan file hasil tulis dihapus lagi
	w = doUpload(t, r, token, "lost.txt", "no parent", "99999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	entries, err := os.ReadDir(uploadDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1) // hanya orphan.txt yang bertahan

	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUploadRejectsNonPositiveNotificationID(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	for _, badID := range []string{"-5", "0", "abc"} {
		w := doUpload(t, r, token, "notes.txt", "hello", badID)
		assert.Equal(t, http.StatusBadRequest, w.Code, "notification_id=%s", badID)
	}

	// Tidak ada row maupun file yang tersimpan
	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	assert.Equal(t, int64(0), count)
	entries, err := os.ReadDir(uploadDir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRequiresAdmin(t *testing.T) {
	t.Setenv("UPLOAD_PATH", t.TempDir())

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "plain_user", "password123", false)

	w := doUpload(t, r, token, "notes.txt", "hello", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDownloadMissingFileOnDisk(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	w := doUpload(t, r, token, "vanishing.txt", "soon gone", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	storageName := dataOf(t, w)["attachment"].(map[string]interface{})["filename"].(string)

	// Row ada tapi file hilang dari disk -> tetap 404
	assert.NoError(t, os.Remove(filepath.Join(uploadDir, storageName)))
	w = doJSON(t, r, "GET", "/files/"+storageName, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nama yang tidak pernah ada -> 404 juga
	w = doJSON(t, r, "GET", "/files/never-existed.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAttachment(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	w := doUpload(t, r, token, "trash.txt", "delete me", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	att := dataOf(t, w)["attachment"].(map[string]interface{})
	attID := int(att["id"].(float64))
	storageName := att["filename"].(string)

	w = doJSON(t, r, "DELETE", fmt.Sprintf("/attachments/%d", attID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	assert.Equal(t, int64(0), count)
	_, err := os.Stat(filepath.Join(uploadDir, storageName))
	assert.True(t, os.IsNotExist(err))

	// Hapus lagi -> 404
	w = doJSON(t, r, "DELETE", fmt.Sprintf("/attachments/%d", attID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Hapus baris tetap jalan walau file sudah tidak ada di disk
func TestDeleteAttachmentMissingFile(t *testing.T) {
	uploadDir := t.TempDir()
	t.Setenv("UPLOAD_PATH", uploadDir)

	db := setupTestDB(t)
	r := setupRouterForTest(db)

	_, token := seedUser(t, db, "board_admin", "password123", true)

	att := models.Attachment{
		Filename:         "ghost.txt",
		OriginalFilename: "ghost.txt",
		FilePath:         filepath.Join(uploadDir, "ghost.txt"),
		FileSize:         1,
		MimeType:         "text/plain",
	}
	assert.NoError(t, db.Create(&att).Error)

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/attachments/%d", att.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAttachmentListUnpublishedParent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouterForTest(db)

	admin, _ := seedUser(t, db, "board_admin", "password123", true)
	draft := seedNotification(t, db, admin.ID, "Draft", "Hidden", "medium", false)

	w := doJSON(t, r, "GET", fmt.Sprintf("/notifications/%d/attachments", draft.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
