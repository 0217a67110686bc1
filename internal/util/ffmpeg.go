package util

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoProbe 获取视频元数据，测试中可替换
type VideoProbe func(videoPath string) (*VideoInfo, error)

// VideoInfo 存储视频信息
type VideoInfo struct {
	Duration float64 `json:"duration"` // 视频时长（秒）
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// DurationMinutes 向上取整，至少 1 分钟
func (v *VideoInfo) DurationMinutes() int {
	minutes := int(math.Ceil(v.Duration / 60))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// GetVideoInfo 使用ffmpeg-go库获取视频信息
func GetVideoInfo(videoPath string) (*VideoInfo, error) {
	jsonOutput, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	return parseProbeOutput(jsonOutput)
}

func parseProbeOutput(jsonOutput string) (*VideoInfo, error) {
	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	info := &VideoInfo{}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}

	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	return info, nil
}
