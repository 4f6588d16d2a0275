package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"tienda_back_end/internal/database"
)

// UploadProductImage pousse l'image vers MinIO et retourne le chemin
// de l'objet stocké (pas l'URL). Nom unique pour éviter les collisions.
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinioClient == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := fmt.Sprintf("products/%s%s", uuid.NewString(), filepath.Ext(file.Filename))

	_, err = database.MinioClient.PutObject(
		ctx,
		os.Getenv("MINIO_BUCKET"),
		objectName,
		f,
		file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")},
	)
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// GetPublicURL dérive l'URL publique d'un objet. Déterministe et
// synchrone : le bucket est public, pas besoin d'URL signée.
func GetPublicURL(objectPath string) string {
	if objectPath == "" {
		return ""
	}

	publicBase := os.Getenv("MINIO_PUBLIC_URL")
	if publicBase == "" {
		publicBase = fmt.Sprintf("http://%s", os.Getenv("MINIO_ENDPOINT"))
	}
	return fmt.Sprintf("%s/%s/%s", publicBase, os.Getenv("MINIO_BUCKET"), objectPath)
}
