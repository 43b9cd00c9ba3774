package handlers

import (
	"errors"
	"path"
	"strconv"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const resourceUploadFolder = "mentor_connect_resources"

// UploadSignature lets the browser upload an attachment straight to Cloudinary.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

var errNoCloudinarySecret = errors.New("cloudinary url has no api secret")

// draftFolder holds attachments uploaded before their resource exists.
func draftFolder(uploaderID uuid.UUID) string {
	return path.Join(resourceUploadFolder, "drafts", uploaderID.String())
}

func resourceFolder(resourceID uuid.UUID) string {
	return path.Join(resourceUploadFolder, resourceID.String())
}

// signUpload signs an upload into folder. The signature only covers folder
// and timestamp, so the client cannot choose another folder.
func signUpload(cloudinaryURL, folder string, at time.Time) (*UploadSignature, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	if cld.Config.Cloud.APISecret == "" {
		return nil, errNoCloudinarySecret
	}

	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	timestamp := at.Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, err
	}
	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		CloudName: cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}

func sendUploadSignature(c *fiber.Ctx, folder string) error {
	sig, err := signUpload(config.Config("CLOUDINARY_URL"), folder, time.Now())
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to sign upload params")
	}
	return c.JSON(sig)
}

// GenerateUploadSignature signs an upload into the caller's drafts folder, for
// attachments picked while a resource is still being written.
func GenerateUploadSignature(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	return sendUploadSignature(c, draftFolder(actor.UserID))
}

// GenerateResourceUploadSignature signs an upload into the folder of an
// existing resource. Only its creator or an admin may upload there.
func GenerateResourceUploadSignature(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	resource, err := ownedResource(c, actor)
	if err != nil {
		return err
	}
	return sendUploadSignature(c, resourceFolder(resource.ID))
}
