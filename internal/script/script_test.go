// internal/script/script_test.go

package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshdock/internal/apperr"
	"sshdock/internal/models"
)

const sampleScript = `#!/bin/bash
set -e

NAME='jellyfin'
REPO="jellyfin/jellyfin:latest"

docker pull "$REPO"
docker stop "$NAME" 2>/dev/null || true
docker rm "$NAME" 2>/dev/null || true

docker create \
    --name "$NAME" \
    --restart unless-stopped \
    --network media \
    -p 8096:8096 \
    -p 1900:1900/udp \
    -v /srv/jellyfin/config:/config \
    -v /srv/media:/media:ro \
    -e 'TZ=Europe/Warsaw' \
    -e 'JELLYFIN_PublishedServerUrl=http://media.local' \
    --device /dev/dri \
    "$REPO"

docker start "$NAME"
`

func TestParseScript(t *testing.T) {
	spec, err := Parse(sampleScript)
	require.NoError(t, err)

	assert.Equal(t, "jellyfin", spec.ContainerName)
	assert.Equal(t, "jellyfin/jellyfin:latest", spec.Image)
	assert.Equal(t, "unless-stopped", spec.RestartPolicy)
	assert.Equal(t, "media", spec.Network)

	require.Len(t, spec.Ports, 2)
	assert.Equal(t, models.PortMapping{HostPort: 8096, ContainerPort: 8096, Protocol: "tcp"}, spec.Ports[0])
	assert.Equal(t, models.PortMapping{HostPort: 1900, ContainerPort: 1900, Protocol: "udp"}, spec.Ports[1])

	require.Len(t, spec.Volumes, 2)
	assert.Equal(t, models.VolumeMount{HostPath: "/srv/media", ContainerPath: "/media", Mode: "ro"}, spec.Volumes[1])

	require.Len(t, spec.Env, 2)
	assert.Equal(t, models.EnvVar{Key: "TZ", Value: "Europe/Warsaw"}, spec.Env[0])

	// The unrecognized flag survives with its value.
	assert.Equal(t, []string{"--device", "/dev/dri"}, spec.Extra)
}

func TestParseDockerRunForm(t *testing.T) {
	content := "docker run -d --name web --env=MODE=prod -p 80:8080 nginx:alpine\n"
	spec, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "web", spec.ContainerName)
	assert.Equal(t, "nginx:alpine", spec.Image)
	require.Len(t, spec.Env, 1)
	assert.Equal(t, models.EnvVar{Key: "MODE", Value: "prod"}, spec.Env[0])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "no docker command", content: "#!/bin/bash\necho hello\n"},
		{name: "no image", content: "docker run -d --name x\n"},
		{name: "bad env", content: "docker run -e BROKEN img\n"},
		{name: "bad port", content: "docker run -p nope img\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			require.Error(t, err)
			var appErr *apperr.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperr.Parse, appErr.Kind)
		})
	}
}

func TestEnvLastWriteWins(t *testing.T) {
	content := "docker run -e A=1 -e A=2 -e B=x img\n"
	spec, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, spec.Env, 2)
	assert.Equal(t, "2", spec.Env[0].Value)
}

func TestGenerateCanonicalOrder(t *testing.T) {
	spec := models.NewDeploymentSpec("")
	spec.ContainerName = "app"
	spec.Image = "repo/app:1"
	spec.SetEnv("ZULU", "z")
	spec.SetEnv("ALPHA", "a")

	out := Generate(spec)
	// Env keys come out alphabetical regardless of insertion order.
	alpha := "-e 'ALPHA=a'"
	zulu := "-e 'ZULU=z'"
	assert.Contains(t, out, alpha)
	assert.Contains(t, out, zulu)
	assert.Less(t, indexOf(out, alpha), indexOf(out, zulu))

	assert.Contains(t, out, "#!/bin/bash")
	assert.Contains(t, out, "NAME='app'")
	assert.Contains(t, out, "REPO='repo/app:1'")
	assert.Contains(t, out, "docker stop \"$NAME\"")
	assert.Contains(t, out, "docker start \"$NAME\"")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestRoundTrip(t *testing.T) {
	spec, err := Parse(sampleScript)
	require.NoError(t, err)

	again, err := Parse(Generate(spec))
	require.NoError(t, err)
	assert.True(t, spec.Equal(again), "Parse(Generate(spec)) must equal spec")
}

func TestRoundTripContainerCommand(t *testing.T) {
	content := "docker run -d -e FOO=bar postgres:16 postgres -c max_connections=100\n"
	spec, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "postgres:16", spec.Image)
	assert.Equal(t, []string{"postgres", "-c", "max_connections=100"}, spec.Command)
	assert.Empty(t, spec.Extra)

	// The command must come out behind the image, so re-parsing cannot
	// mistake its first word for the image reference.
	again, err := Parse(Generate(spec))
	require.NoError(t, err)
	assert.Equal(t, "postgres:16", again.Image)
	assert.True(t, spec.Equal(again))
}

func TestRoundTripEnvValueWithQuote(t *testing.T) {
	spec := models.NewDeploymentSpec("")
	spec.ContainerName = "app"
	spec.Image = "repo/app:1"
	spec.SetEnv("GREETING", "it's fine")

	out := Generate(spec)
	assert.Contains(t, out, `-e "GREETING=it's fine"`)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, spec.Equal(again))
}

func TestExpandVarsRespectsIdentifierBoundary(t *testing.T) {
	content := "NAME='app'\ndocker run --name $NAME -e NS=$NAMESPACE img\n"
	spec, err := Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "app", spec.ContainerName)
	require.Len(t, spec.Env, 1)
	assert.Equal(t, models.EnvVar{Key: "NS", Value: "$NAMESPACE"}, spec.Env[0])
}

func TestParseSalvagesUnparseableCommand(t *testing.T) {
	content := "NAME='web'\ndocker run -p nope -e A=1 img\n"
	spec, err := Parse(content)
	require.Error(t, err)

	// The whole command survives as opaque extra arguments.
	require.NotNil(t, spec)
	assert.Equal(t, "web", spec.ContainerName)
	assert.Equal(t, []string{"-p", "nope", "-e", "A=1", "img"}, spec.Extra)
	assert.Empty(t, spec.Env)

	// A script with no docker command has nothing to salvage.
	spec, err = Parse("#!/bin/bash\necho hello\n")
	require.Error(t, err)
	assert.Nil(t, spec)
}

func TestRoundTripAfterEdit(t *testing.T) {
	spec, err := Parse(sampleScript)
	require.NoError(t, err)

	spec.SetEnv("TZ", "UTC")
	spec.SetEnv("NEW_VAR", "1")
	spec.RemoveEnv("JELLYFIN_PublishedServerUrl")

	again, err := Parse(Generate(spec))
	require.NoError(t, err)
	assert.True(t, spec.Equal(again))

	val := ""
	for _, e := range again.Env {
		if e.Key == "TZ" {
			val = e.Value
		}
	}
	assert.Equal(t, "UTC", val)
}
