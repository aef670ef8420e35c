/*
Package ports defines the capability contracts of the fernspiel engine.

These interfaces decouple the machine from concrete effects and sensors, so
that speech, sound, the bell and any custom effect are orchestrated the same
way, and hardware, keyboard and remote input are polled the same way.

# Key Interfaces

  - Act: a timed side effect with an activate/update/cancel/done lifecycle.
  - Sense: a source of dial inputs that is polled for one input at a time.
  - Responder: an observer of machine events that reports whether it is busy.
  - Player, Voice, Phone: the audio, speech synthesis and hardware backends.
*/
package ports
