package services

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

const (
	avatarRenderSize = 512
	avatarFinalSize  = 256
	avatarFontPoints = 206
)

// avatarPalette is the fixed set of background colors; a user's color
// is picked deterministically from their id so re-renders are stable.
var avatarPalette = []color.NRGBA{
	{R: 0x4C, G: 0x6E, B: 0xF5, A: 0xFF},
	{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
}

type AvatarService interface {
	CreateUserAvatar(user *types.User) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
}

// NewAvatarService renders initials avatars with the embedded Go font,
// so no font file has to ship alongside the binary.
func NewAvatarService(log *logger.Logger, mediaDir string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: avatarFontPoints})

	if err := os.MkdirAll(filepath.Join(mediaDir, "user_avatar"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(user *types.User) error {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}

	key := filepath.Join("user_avatar", fmt.Sprintf("%s.png", user.ID))
	path := filepath.Join(as.mediaDir, key)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write avatar file: %w", err)
	}

	user.AvatarKey = key
	user.AvatarURL = "/media/" + filepath.ToSlash(key)
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	var out bytes.Buffer

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	bg := avatarPalette[int(hashString(user.ID.String()))%len(avatarPalette)]
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	initials := userInitials(user)
	dc.DrawStringAnchored(initials, avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	// Render at 2x and downscale for smoother glyph edges.
	src := dc.Image()
	dst := image.NewRGBA(image.Rect(0, 0, avatarFinalSize, avatarFinalSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	if err := png.Encode(&out, dst); err != nil {
		return out, fmt.Errorf("encode avatar png: %w", err)
	}
	return out, nil
}

func userInitials(user *types.User) string {
	first := strings.TrimSpace(user.FirstName)
	last := strings.TrimSpace(user.LastName)
	var b strings.Builder
	if first != "" {
		b.WriteString(strings.ToUpper(first[:1]))
	}
	if last != "" {
		b.WriteString(strings.ToUpper(last[:1]))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
