package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/types"
)

// AvatarService renders the initials avatar stored on the user row. The PNG
// lives in postgres rather than object storage; at 512px it stays well under
// the row-size range gorm handles comfortably.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	SetUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo

	palette  []color.NRGBA
	fontFace font.Face
}

var defaultPalette = []color.NRGBA{
	{R: 0x6C, G: 0x8E, B: 0xBF, A: 0xFF},
	{R: 0x8F, G: 0xBF, B: 0x8F, A: 0xFF},
	{R: 0xBF, G: 0x8F, B: 0xA8, A: 0xFF},
	{R: 0xBF, G: 0xA8, B: 0x6C, A: 0xFF},
	{R: 0x8F, G: 0x6C, B: 0xBF, A: 0xFF},
	{R: 0x6C, G: 0xBF, B: 0xB2, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("Env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		palette:  defaultPalette,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(_ context.Context, _ *gorm.DB, user *types.User) error {
	const size = 512

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.Name)
	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	user.AvatarPNG = buf.Bytes()
	return nil
}

func (as *avatarService) SetUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	user.AvatarPNG = processed.Bytes()

	if err := as.userRepo.Update(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to save avatar: %w", err)
	}
	return nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// pickColor hashes the user id so the same user always gets the same
// background across regenerations.
func (as *avatarService) pickColor(user *types.User) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(user.ID.String()))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func computeInitials(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(fields[0][:1])
	default:
		return strings.ToUpper(fields[0][:1]) + strings.ToUpper(fields[len(fields)-1][:1])
	}
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
